package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/MrJamesThe3rd/finboard/internal/kv"
	"github.com/MrJamesThe3rd/finboard/internal/rules"
)

// Key holds the JSON list of rules.
const Key = "categoryRules"

// CacheTTL bounds how long a rule written by another process can go unseen.
const CacheTTL = time.Minute

// Store keeps rules in the same key/value store as the finance state. The decoded list is
// cached for CacheTTL.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	cache *cache.Cache
	now   func() time.Time
}

func New(store kv.Store) *Store {
	return &Store{
		kv:    store,
		cache: cache.New(CacheTTL, 2*CacheTTL),
		now:   time.Now,
	}
}

func (s *Store) load(ctx context.Context) ([]rules.Rule, error) {
	if v, ok := s.cache.Get(Key); ok {
		return slices.Clone(v.([]rules.Rule)), nil
	}

	list, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(Key, slices.Clone(list))

	return list, nil
}

func (s *Store) read(ctx context.Context) ([]rules.Rule, error) {
	b, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	var list []rules.Rule
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}

	return list, nil
}

// FindMatch prefers the longest matching pattern, then the newest rule.
func (s *Store) FindMatch(ctx context.Context, label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return "", fmt.Errorf("finding match: %w", err)
	}

	lower := strings.ToLower(label)

	var best *rules.Rule

	for i := range list {
		r := &list[i]
		if !strings.Contains(lower, strings.ToLower(r.Pattern)) {
			continue
		}

		if best == nil || len(r.Pattern) > len(best.Pattern) ||
			(len(r.Pattern) == len(best.Pattern) && !r.CreatedAt.Before(best.CreatedAt)) {
			best = r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.Category, nil
}

// CreateRule adds a rule, replacing any rule with the same pattern.
func (s *Store) CreateRule(ctx context.Context, pattern, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	list = slices.DeleteFunc(list, func(r rules.Rule) bool { return strings.EqualFold(r.Pattern, pattern) })
	list = append(list, rules.Rule{Pattern: pattern, Category: category, CreatedAt: s.now()})

	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}

	if err := s.kv.Put(ctx, []kv.Entry{{Key: Key, Value: b}}); err != nil {
		s.cache.Delete(Key)
		return fmt.Errorf("creating rule: %w", err)
	}

	s.cache.SetDefault(Key, slices.Clone(list))

	return nil
}

// ListRules returns the rules sorted by pattern.
func (s *Store) ListRules(ctx context.Context) ([]rules.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}

	slices.SortFunc(list, func(a, b rules.Rule) int {
		return cmp.Compare(strings.ToLower(a.Pattern), strings.ToLower(b.Pattern))
	})

	return list, nil
}
