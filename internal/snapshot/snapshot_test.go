package snapshot

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(maxMessages int) *config.Config {
	return &config.Config{
		Snapshot: config.SnapshotConfig{
			Enabled:     true,
			Type:        "memory",
			MaxMessages: maxMessages,
			Memory: config.MemoryConfig{
				DefaultExpiration: time.Hour,
				CleanupInterval:   time.Hour,
			},
		},
	}
}

func messages(n int) []models.ChatMessage {
	msgs := make([]models.ChatMessage, n)
	for i := range msgs {
		msgs[i] = models.ChatMessage{
			ID:        int64(i + 1),
			Text:      fmt.Sprintf("mensagem %d", i+1),
			Kind:      models.KindUser,
			CreatedAt: time.Now(),
		}
	}
	return msgs
}

func newTestManager(t *testing.T, maxMessages int) *Manager {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	m, err := NewManager(memoryConfig(maxMessages), log)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestDisabledManagerIsNil(t *testing.T) {
	m, err := NewManager(&config.Config{}, logrus.New())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 10)

	require.NoError(t, m.Save(ctx, "conv-1", messages(4)))

	got, err := m.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "mensagem 1", got[0].Text)
}

func TestSaveCapsAtMaxMessages(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 3)

	require.NoError(t, m.Save(ctx, "conv-1", messages(5)))

	got, err := m.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Only the most recent messages survive.
	assert.Equal(t, "mensagem 3", got[0].Text)
	assert.Equal(t, "mensagem 5", got[2].Text)
}

func TestLoadUnknownConversation(t *testing.T) {
	m := newTestManager(t, 3)

	got, err := m.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 3)

	require.NoError(t, m.Save(ctx, "conv-1", messages(2)))
	require.NoError(t, m.Delete(ctx, "conv-1"))

	got, err := m.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
