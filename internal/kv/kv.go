// Package kv defines the flat key/value store the finance engine persists into.
// Each top-level state field lives under its own key as a JSON document.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Entry is a single key and its encoded value.
type Entry struct {
	Key   string
	Value []byte
}

//go:generate mockgen -source=kv.go -destination=store_mock.go -package=kv
type Store interface {
	// Get returns ErrNotFound for unknown keys. Any other error means the store is unavailable.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes all entries together; either every entry is stored or none is.
	Put(ctx context.Context, entries []Entry) error
}
