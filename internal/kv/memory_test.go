package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/kv"
)

func TestMemory_GetMissing(t *testing.T) {
	m := kv.NewMemory()

	_, err := m.Get(context.Background(), "income")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestMemory_PutThenGet(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	err := m.Put(ctx, []kv.Entry{
		{Key: "balance", Value: []byte("100")},
		{Key: "alertThreshold", Value: []byte("0.8")},
	})
	require.NoError(t, err)

	got, err := m.Get(ctx, "balance")
	require.NoError(t, err)
	assert.Equal(t, "100", string(got))

	threshold, err := m.Get(ctx, "alertThreshold")
	require.NoError(t, err)
	assert.Equal(t, "0.8", string(threshold))

	// Returned slices are copies.
	got[0] = '9'
	again, err := m.Get(ctx, "balance")
	require.NoError(t, err)
	assert.Equal(t, "100", string(again))
}

func TestMemory_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	require.NoError(t, m.Put(ctx, []kv.Entry{{Key: "k", Value: []byte("1")}}))
	require.NoError(t, m.Put(ctx, []kv.Entry{{Key: "k", Value: []byte("2")}}))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
}
