// Package importer turns bank and finboard CSV files into finance import items.
package importer

import (
	"context"
	"io"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

type Format string

const (
	FormatNative Format = "native"
	FormatCGD    Format = "cgd"
)

// Formats lists every supported format.
var Formats = []Format{FormatNative, FormatCGD}

// DefaultCategory is used when neither the file nor a rule names a category.
const DefaultCategory = "Uncategorized"

type Parser interface {
	Parse(r io.Reader) ([]finance.ImportItem, error)
}

// Suggester proposes a category for a label, returning "" when it has none.
type Suggester interface {
	Suggest(ctx context.Context, label string) (string, error)
}
