package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/importer/cgd"
	"github.com/MrJamesThe3rd/finboard/internal/importer/native"
)

type Service struct {
	parsers   map[Format]Parser
	suggester Suggester
}

// NewService wires the built-in parsers. suggester may be nil.
func NewService(suggester Suggester) *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatNative: native.NewParser(),
			FormatCGD:    cgd.NewParser(),
		},
		suggester: suggester,
	}
}

// Import parses r and fills in missing categories from the suggester, falling back to
// DefaultCategory. The items are not recorded; pass them to finance.Engine.Import.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) ([]finance.ImportItem, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	items, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s file: %w", format, err)
	}

	for i := range items {
		if strings.TrimSpace(items[i].Params.Category) != "" {
			continue
		}

		category, err := s.suggest(ctx, items[i].Params.Label)
		if err != nil {
			return nil, err
		}

		items[i].Params.Category = category
	}

	return items, nil
}

func (s *Service) suggest(ctx context.Context, label string) (string, error) {
	if s.suggester == nil {
		return DefaultCategory, nil
	}

	category, err := s.suggester.Suggest(ctx, label)
	if err != nil {
		return "", fmt.Errorf("suggesting category: %w", err)
	}

	if category == "" {
		return DefaultCategory, nil
	}

	return category, nil
}
