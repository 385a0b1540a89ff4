// Package export saves the finance CSV exports to disk and summarises them.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

const (
	FileIncome   = "income.csv"
	FileExpenses = "expenses.csv"
	FileHistory  = "history.csv"
)

// Files lists the export files in the order they are written.
var Files = []string{FileIncome, FileExpenses, FileHistory}

var ErrUnknownFile = errors.New("unknown export file")

// Source produces the CSV text. *finance.Engine implements it.
type Source interface {
	ExportCSV() finance.CSVExport
}

// Item is one written export file.
type Item struct {
	Name string
	Path string
	Rows int
}

// Result lists the written files and the totals of the state they were rendered from.
type Result struct {
	Items  []Item
	Totals finance.Summary
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Render returns the content of one export file.
func (s *Service) Render(name string) (string, error) {
	return pick(s.source.ExportCSV(), name)
}

func pick(snap finance.CSVExport, name string) (string, error) {
	switch name {
	case FileIncome:
		return snap.Income, nil
	case FileExpenses:
		return snap.Expenses, nil
	case FileHistory:
		return snap.History, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFile, name)
}

// Export writes every export file into dir, creating it if needed. All files come from one
// snapshot. Each file is written to a temporary name first so a failed export never leaves a
// truncated file behind.
func (s *Service) Export(ctx context.Context, dir string) (Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	snap := s.source.ExportCSV()
	res := Result{Items: make([]Item, 0, len(Files)), Totals: snap.Summary}

	for _, name := range Files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		content, err := pick(snap, name)
		if err != nil {
			return Result{}, err
		}

		rows, err := countRows(content)
		if err != nil {
			return Result{}, fmt.Errorf("reading back %s: %w", name, err)
		}

		path := filepath.Join(dir, name)
		if err := writeFile(path, content); err != nil {
			return Result{}, fmt.Errorf("writing %s: %w", name, err)
		}

		res.Items = append(res.Items, Item{Name: name, Path: path, Rows: rows})
	}

	return res, nil
}

// countRows counts data records below the header. Quoted fields may span lines.
func countRows(content string) (int, error) {
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	if err != nil {
		return 0, err
	}

	return max(len(records)-1, 0), nil
}

func writeFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// GenerateSummary describes the exported totals and the written files.
func (s *Service) GenerateSummary(res Result) string {
	sum := res.Totals

	var sb strings.Builder

	fmt.Fprintf(&sb, "Income:       %s\n", sum.TotalIncome.StringFixed(2))
	fmt.Fprintf(&sb, "Expenses:     %s\n", sum.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&sb, "Balance:      %s\n", sum.Balance.StringFixed(2))
	fmt.Fprintf(&sb, "Savings rate: %s%%\n", sum.SavingsRate.StringFixed(1))

	for _, item := range res.Items {
		fmt.Fprintf(&sb, "* %s | %d rows | %s\n", item.Name, item.Rows, item.Path)
	}

	return sb.String()
}
