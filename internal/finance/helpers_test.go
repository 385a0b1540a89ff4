package finance_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/kv"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newEngine builds an unseeded engine over a fresh memory store with a fixed clock.
func newEngine(t *testing.T, opts ...finance.Option) (*finance.Engine, *kv.Memory) {
	t.Helper()

	store := kv.NewMemory()

	base := []finance.Option{
		finance.WithLogger(quietLogger()),
		finance.WithClock(func() time.Time { return fixedNow }),
		finance.WithSeed(false),
	}

	e, err := finance.New(context.Background(), store, append(base, opts...)...)
	require.NoError(t, err)

	return e, store
}

func expense(label, amount, category string) finance.CreateParams {
	return finance.CreateParams{Label: label, Amount: dec(amount), Category: category}
}

type recordingPublisher struct {
	alerts []finance.Alert
	err    error
}

func (p *recordingPublisher) PublishAlert(_ context.Context, a finance.Alert) error {
	p.alerts = append(p.alerts, a)
	return p.err
}
