// Package rules suggests categories for transaction labels from learned patterns.
package rules

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidRule = errors.New("rule pattern and category are required")

// Rule maps every label containing Pattern, ignoring case, to Category.
type Rule struct {
	Pattern   string    `json:"pattern"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rules
type Repository interface {
	FindMatch(ctx context.Context, label string) (string, error)
	CreateRule(ctx context.Context, pattern, category string) error
	ListRules(ctx context.Context) ([]Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest pattern contained in label.
// Returns empty string if no rule matches.
func (s *Service) Suggest(ctx context.Context, label string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, label)
}

// Learn remembers that labels containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, pattern, category string) error {
	pattern = strings.TrimSpace(pattern)
	category = strings.TrimSpace(category)

	if pattern == "" || category == "" {
		return ErrInvalidRule
	}

	return s.repo.CreateRule(ctx, pattern, category)
}

func (s *Service) List(ctx context.Context) ([]Rule, error) {
	return s.repo.ListRules(ctx)
}
