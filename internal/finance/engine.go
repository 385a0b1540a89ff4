package finance

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/kv"
)

// DefaultAlertThreshold is used until a threshold is configured.
var DefaultAlertThreshold = decimal.RequireFromString("0.8")

// budgetHeadroom sizes the limit of a budget created from a first expense.
var budgetHeadroom = decimal.RequireFromString("1.5")

// Publisher receives alerts as they are added to the notifications.
type Publisher interface {
	PublishAlert(ctx context.Context, alert Alert) error
}

// Engine is the single authority over the financial state. Every mutation keeps budgets,
// totals and notifications consistent with the transaction lists and then persists the
// whole state. Methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	store     kv.Store
	log       *slog.Logger
	now       func() time.Time
	ids       IDGenerator
	publisher Publisher
	seed      bool

	income        []Transaction
	expenses      []Transaction
	budgets       map[string]Budget
	notifications []string
	threshold     decimal.Decimal
	history       []MonthArchive
	filter        Filter

	// degraded is set once the store fails; the engine then runs in memory only.
	degraded bool
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock replaces time.Now, which decides "today" and the current month.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the default Counter seeded above the largest stored id.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithSeed controls whether sample transactions and budgets fill in missing keys.
func WithSeed(seed bool) Option {
	return func(e *Engine) { e.seed = seed }
}

// New restores an engine from store. Missing or unreadable keys fall back to defaults; an
// unavailable store degrades the engine to memory-only operation instead of failing.
func New(ctx context.Context, store kv.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:  store,
		log:    slog.Default(),
		now:    time.Now,
		seed:   true,
		filter: Filter{Category: CategoryAll},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.load(ctx)

	if e.ids == nil {
		e.ids = NewCounter(e.maxID())
	}

	e.mu.Lock()
	alerts := e.evaluateAlerts()
	e.persist(ctx)
	e.mu.Unlock()

	e.publish(ctx, alerts)

	return e, nil
}

// Degraded reports whether persistence has been abandoned for this session.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.degraded
}

func (e *Engine) today() Date {
	return DateOf(e.now())
}

func (e *Engine) maxID() int64 {
	var highest int64

	scan := func(txs []Transaction) {
		for _, tx := range txs {
			highest = max(highest, tx.ID)
		}
	}

	scan(e.income)
	scan(e.expenses)

	for _, h := range e.history {
		scan(h.Income)
		scan(h.Expenses)
	}

	return highest
}

// persist writes every state key. The caller holds e.mu. The write outlives the caller's
// cancellation, and a failure caused only by an expired context does not degrade the engine.
func (e *Engine) persist(ctx context.Context) {
	if e.degraded {
		return
	}

	entries, err := e.entries()
	if err != nil {
		e.log.Error("encoding state", "error", err)
		return
	}

	err = e.store.Put(context.WithoutCancel(ctx), entries)

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.log.Error("persisting state", "error", err)
	default:
		e.degrade(err)
	}
}

func (e *Engine) degrade(err error) {
	if e.degraded {
		return
	}

	e.degraded = true
	e.log.Warn("state store unavailable, continuing in memory for this session", "error", err)
}

// publish hands alerts to the publisher. The caller must not hold e.mu.
func (e *Engine) publish(ctx context.Context, alerts []Alert) {
	if e.publisher == nil || len(alerts) == 0 {
		return
	}

	for _, a := range alerts {
		if err := e.publisher.PublishAlert(ctx, a); err != nil {
			e.log.Warn("publishing budget alert", "category", a.Category, "error", err)
		}
	}
}
