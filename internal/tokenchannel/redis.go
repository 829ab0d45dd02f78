package tokenchannel

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/sirupsen/logrus"
)

// Redis fans token updates out across processes over Redis Pub/Sub, so a
// login handled by one storefront instance reaches dispatchers in every
// other one.
type Redis struct {
	client  *redis.Client
	channel string
	logger  *logrus.Logger
	local   *Memory
	cancel  context.CancelFunc
	pubsub  *redis.PubSub
}

// NewRedis connects to Redis and starts relaying the named channel into
// local subscribers.
func NewRedis(cfg *config.Config, logger *logrus.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Snapshot.Redis.Addr,
		Password: cfg.Snapshot.Redis.Password,
		DB:       cfg.Snapshot.Redis.DB,
	})

	ctx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	relayCtx, cancel := context.WithCancel(context.Background())
	r := &Redis{
		client:  client,
		channel: cfg.TokenChannel.Channel,
		logger:  logger,
		local:   NewMemory(),
		cancel:  cancel,
	}

	r.pubsub = client.Subscribe(relayCtx, r.channel)
	go r.relay(relayCtx)

	return r, nil
}

func (r *Redis) relay(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-r.pubsub.Channel():
			if !ok {
				return
			}
			r.logger.WithField("channel", r.channel).Debug("Token update received")
			if err := r.local.Publish(msg.Payload); err != nil {
				r.logger.WithError(err).Error("Failed to relay token update")
			}
		}
	}
}

func (r *Redis) Subscribe(fn func(token string)) func() {
	return r.local.Subscribe(fn)
}

func (r *Redis) Publish(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Publish(ctx, r.channel, token).Err()
}

func (r *Redis) Close() error {
	r.cancel()
	if err := r.pubsub.Close(); err != nil {
		r.logger.WithError(err).Warn("Failed to close pubsub")
	}
	r.local.Close()
	return r.client.Close()
}
