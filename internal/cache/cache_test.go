package cache

import (
	"context"
	"io"
	"testing"

	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, capacity int) Service {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc, err := NewResponseCache(&config.Config{
		Cache: config.CacheConfig{Enabled: true, Capacity: capacity},
	}, log)
	require.NoError(t, err)
	return svc
}

func payload(text string) models.AnswerPayload {
	return models.AnswerPayload{Text: text, Source: "groq"}
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t, 2)
	got, ok := c.Get(context.Background(), "leite")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, c.Len())
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 2)

	c.Set(ctx, "a", payload("1"))
	c.Set(ctx, "b", payload("2"))
	c.Set(ctx, "c", payload("3"))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should have been evicted")

	got, ok := c.Get(ctx, "b")
	require.True(t, ok)
	assert.Equal(t, "2", got.Text)

	got, ok = c.Get(ctx, "c")
	require.True(t, ok)
	assert.Equal(t, "3", got.Text)
}

func TestAccessReordersEviction(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 2)

	c.Set(ctx, "a", payload("1"))
	c.Set(ctx, "b", payload("2"))

	// Touching a makes b the LRU entry, so inserting c evicts b.
	_, ok := c.Get(ctx, "a")
	require.True(t, ok)

	c.Set(ctx, "c", payload("3"))

	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
}

func TestKeysAreNormalized(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 4)

	c.Set(ctx, "  Leite  Integral ", payload("R$ 5,49"))

	got, ok := c.Get(ctx, "leite integral")
	require.True(t, ok)
	assert.Equal(t, "R$ 5,49", got.Text)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 2)

	c.Set(ctx, "a", payload("1"))
	c.Clear(ctx)

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, err := NewResponseCache(&config.Config{
		Cache: config.CacheConfig{Enabled: false},
	}, nil)
	require.NoError(t, err)

	svc.Set(ctx, "a", payload("1"))
	_, ok := svc.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, svc.Len())
}
