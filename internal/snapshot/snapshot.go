// Package snapshot persists a best-effort copy of the most recent
// conversation messages. Losing a snapshot never loses a question: the
// conversation store treats every write as advisory.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/mercafeira/assistant-go/internal/models"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Store defines snapshot storage operations.
type Store interface {
	Save(ctx context.Context, conversationID string, messages []models.ChatMessage) error
	Load(ctx context.Context, conversationID string) ([]models.ChatMessage, error)
	Delete(ctx context.Context, conversationID string) error
}

// Manager caps snapshots at the configured message count and delegates to
// the configured backend.
type Manager struct {
	store  Store
	max    int
	logger *logrus.Logger
}

// NewManager creates a snapshot manager, or nil when snapshots are disabled.
func NewManager(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	if !cfg.Snapshot.Enabled {
		return nil, nil
	}

	var store Store
	switch cfg.Snapshot.Type {
	case "redis":
		redisStore, err := NewRedisStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case "memory":
		store = NewMemoryStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported snapshot storage type: %s", cfg.Snapshot.Type)
	}

	return &Manager{
		store:  store,
		max:    cfg.Snapshot.MaxMessages,
		logger: logger,
	}, nil
}

// Save writes the last max messages of the conversation.
func (m *Manager) Save(ctx context.Context, conversationID string, messages []models.ChatMessage) error {
	if len(messages) > m.max {
		messages = messages[len(messages)-m.max:]
	}
	return m.store.Save(ctx, conversationID, messages)
}

func (m *Manager) Load(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	return m.store.Load(ctx, conversationID)
}

func (m *Manager) Delete(ctx context.Context, conversationID string) error {
	return m.store.Delete(ctx, conversationID)
}

// RedisStore persists snapshots in Redis with a 24h TTL.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStore(cfg *config.Config, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Snapshot.Redis.Addr,
		Password: cfg.Snapshot.Redis.Password,
		DB:       cfg.Snapshot.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, logger: logger}, nil
}

func snapshotKey(conversationID string) string {
	return fmt.Sprintf("assistant:snapshot:%s", conversationID)
}

func (r *RedisStore) Save(ctx context.Context, conversationID string, messages []models.ChatMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, snapshotKey(conversationID), data, 24*time.Hour).Err()
}

func (r *RedisStore) Load(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	data, err := r.client.Get(ctx, snapshotKey(conversationID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []models.ChatMessage
	if err := json.Unmarshal([]byte(data), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *RedisStore) Delete(ctx context.Context, conversationID string) error {
	return r.client.Del(ctx, snapshotKey(conversationID)).Err()
}

// MemoryStore keeps snapshots in process memory with expiration.
type MemoryStore struct {
	snapshots *gocache.Cache
}

func NewMemoryStore(cfg *config.Config) *MemoryStore {
	return &MemoryStore{
		snapshots: gocache.New(cfg.Snapshot.Memory.DefaultExpiration, cfg.Snapshot.Memory.CleanupInterval),
	}
}

func (m *MemoryStore) Save(ctx context.Context, conversationID string, messages []models.ChatMessage) error {
	copied := make([]models.ChatMessage, len(messages))
	copy(copied, messages)
	m.snapshots.SetDefault(snapshotKey(conversationID), copied)
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	if val, found := m.snapshots.Get(snapshotKey(conversationID)); found {
		return val.([]models.ChatMessage), nil
	}
	return nil, nil
}

func (m *MemoryStore) Delete(ctx context.Context, conversationID string) error {
	m.snapshots.Delete(snapshotKey(conversationID))
	return nil
}
