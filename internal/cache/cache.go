package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/mercafeira/assistant-go/internal/validator"
	"github.com/sirupsen/logrus"
)

// Service defines response cache operations. Keys are raw questions; the
// implementation normalizes them, so "Leite " and "leite" share one entry.
type Service interface {
	Get(ctx context.Context, question string) (*models.AnswerPayload, bool)
	Set(ctx context.Context, question string, payload models.AnswerPayload)
	Clear(ctx context.Context)
	Len() int
}

// ResponseCache is a strict-LRU cache of recent answers. A hit moves the
// entry to the most-recently-used position; inserting past capacity evicts
// exactly the least-recently-used entry.
type ResponseCache struct {
	enabled bool
	entries *lru.Cache[string, models.AnswerPayload]
	logger  *logrus.Logger
}

// NewResponseCache creates a new response cache service
func NewResponseCache(cfg *config.Config, logger *logrus.Logger) (Service, error) {
	if !cfg.Cache.Enabled {
		return &ResponseCache{enabled: false}, nil
	}

	entries, err := lru.New[string, models.AnswerPayload](cfg.Cache.Capacity)
	if err != nil {
		return nil, err
	}

	return &ResponseCache{
		enabled: true,
		entries: entries,
		logger:  logger,
	}, nil
}

// Get retrieves a cached answer for a question
func (c *ResponseCache) Get(ctx context.Context, question string) (*models.AnswerPayload, bool) {
	if !c.enabled {
		return nil, false
	}

	key := validator.NormalizeKey(question)
	payload, found := c.entries.Get(key)
	if !found {
		return nil, false
	}

	c.logger.WithFields(logrus.Fields{
		"question": question,
		"source":   payload.Source,
	}).Debug("Cache hit")
	return &payload, true
}

// Set stores an answer in the cache, evicting the LRU entry at capacity
func (c *ResponseCache) Set(ctx context.Context, question string, payload models.AnswerPayload) {
	if !c.enabled {
		return
	}

	key := validator.NormalizeKey(question)
	if evicted := c.entries.Add(key, payload); evicted {
		c.logger.WithField("question", question).Debug("Cache full, evicted oldest entry")
	}
}

// Clear removes all cached entries
func (c *ResponseCache) Clear(ctx context.Context) {
	if !c.enabled {
		return
	}

	c.entries.Purge()
	c.logger.Info("Response cache cleared")
}

// Len reports the number of cached entries.
func (c *ResponseCache) Len() int {
	if !c.enabled {
		return 0
	}
	return c.entries.Len()
}
