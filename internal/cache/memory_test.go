package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	got, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	got, err = m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	require.NoError(t, m.Delete(ctx, "a"))
	got, err = m.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryTTLExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", []byte("x"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	got, err := m.Get(ctx, "short")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryDeletePrefix(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "prices:stockx:DD1391-100", []byte("a"), 0))
	require.NoError(t, m.Set(ctx, "prices:alias:DD1391-100", []byte("b"), 0))
	require.NoError(t, m.Set(ctx, "other:key", []byte("c"), 0))

	require.NoError(t, m.DeletePrefix(ctx, "prices:"))

	got, err := m.Get(ctx, "prices:stockx:DD1391-100")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = m.Get(ctx, "other:key")
	require.NoError(t, err)
	require.Equal(t, []byte("c"), got)
}
