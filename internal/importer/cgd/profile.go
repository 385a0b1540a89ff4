package cgd

// Layout is one of the CSV exports offered by CGD homebanking.
type Layout struct {
	Name string
	Date string
	Desc string
	// Amount is a single signed column. When empty, Debit and Credit hold unsigned amounts.
	Amount string
	Debit  string
	Credit string
}

func (l Layout) columns() []string {
	if l.Amount != "" {
		return []string{l.Date, l.Desc, l.Amount}
	}

	return []string{l.Date, l.Desc, l.Debit, l.Credit}
}

// layouts are tried in order, so the card layout with its split columns goes first.
var layouts = []Layout{
	{Name: "cartão", Date: "Data", Desc: "Descrição", Debit: "Débito", Credit: "Crédito"},
	{Name: "extrato", Date: "Data mov.", Desc: "Descrição", Amount: "Movimento"},
	{Name: "conta", Date: "Data mov.", Desc: "Descrição", Amount: "Montante"},
}
