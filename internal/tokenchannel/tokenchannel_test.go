package tokenchannel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublishReachesAllSubscribers(t *testing.T) {
	m := NewMemory()

	var first, second []string
	m.Subscribe(func(token string) { first = append(first, token) })
	m.Subscribe(func(token string) { second = append(second, token) })

	require.NoError(t, m.Publish("tok-1"))
	require.NoError(t, m.Publish(""))

	assert.Equal(t, []string{"tok-1", ""}, first)
	assert.Equal(t, []string{"tok-1", ""}, second)
}

func TestMemoryUnsubscribe(t *testing.T) {
	m := NewMemory()

	var got []string
	unsubscribe := m.Subscribe(func(token string) { got = append(got, token) })

	require.NoError(t, m.Publish("a"))
	unsubscribe()
	require.NoError(t, m.Publish("b"))

	assert.Equal(t, []string{"a"}, got)
}

func TestMemoryCloseStopsDelivery(t *testing.T) {
	m := NewMemory()

	var got []string
	m.Subscribe(func(token string) { got = append(got, token) })

	require.NoError(t, m.Close())
	require.NoError(t, m.Publish("late"))

	assert.Empty(t, got)
}
