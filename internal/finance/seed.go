package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

func sampleIncome() []Transaction {
	return []Transaction{
		{ID: 1, Kind: KindIncome, Label: "Salary", Amount: decimal.NewFromInt(5000), Category: "Regular", Date: NewDate(2025, time.March, 1)},
		{ID: 2, Kind: KindIncome, Label: "Freelance", Amount: decimal.NewFromInt(2000), Category: "Variable", Date: NewDate(2025, time.March, 5)},
		{ID: 3, Kind: KindIncome, Label: "Investments", Amount: decimal.NewFromInt(1000), Category: "Passive", Date: NewDate(2025, time.March, 10)},
	}
}

func sampleExpenses() []Transaction {
	return []Transaction{
		{ID: 4, Kind: KindExpense, Label: "Rent", Amount: decimal.NewFromInt(1500), Category: "Housing", Date: NewDate(2025, time.March, 2)},
		{ID: 5, Kind: KindExpense, Label: "Groceries", Amount: decimal.NewFromInt(400), Category: "Food", Date: NewDate(2025, time.March, 8)},
		{ID: 6, Kind: KindExpense, Label: "Transport", Amount: decimal.NewFromInt(200), Category: "Transport", Date: NewDate(2025, time.March, 12)},
	}
}

func sampleBudgets() map[string]Budget {
	return map[string]Budget{
		"Housing":   {Limit: decimal.NewFromInt(2000), Used: decimal.NewFromInt(1500)},
		"Food":      {Limit: decimal.NewFromInt(600), Used: decimal.NewFromInt(400)},
		"Transport": {Limit: decimal.NewFromInt(300), Used: decimal.NewFromInt(200)},
	}
}
