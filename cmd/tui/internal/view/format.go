package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

const storeTimeout = 5 * time.Second

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func FormatDate(d finance.Date) string {
	return d.String()
}

// ParseAmount accepts a positive amount written with a dot or a comma decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount")
	}

	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive")
	}

	return d, nil
}

// StoreCtx returns a context with a standard timeout for operations that persist state.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
