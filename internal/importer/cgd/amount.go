package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a Portuguese formatted amount: "." groups thousands, "," marks decimals.
// "1.234,56" is 1234.56 and "-588,74" is -588.74.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(".", "", ",", ".", " ", "").Replace(s)
	return decimal.NewFromString(s)
}
