package realtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOptions configures a RedisBus.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every channel, e.g. "skillswap:".
	Prefix string
}

// RedisBus publishes through Redis pub/sub so that every API instance sees
// every message. A single pattern subscription per process forwards
// incoming publications to a LocalBus that fans them out to subscribers.
type RedisBus struct {
	log    zerolog.Logger
	rdb    *goredis.Client
	prefix string
	local  *LocalBus
	pubsub *goredis.PubSub
}

// NewRedisBus connects to Redis and verifies the connection.
func NewRedisBus(ctx context.Context, opts RedisOptions, log zerolog.Logger) (*RedisBus, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		log:    log.With().Str("component", "redis_bus").Logger(),
		rdb:    rdb,
		prefix: opts.Prefix,
		local:  NewLocalBus(),
	}, nil
}

// Start subscribes to every channel under the prefix and forwards
// publications until ctx is cancelled. It returns once the subscription is
// confirmed by Redis.
func (b *RedisBus) Start(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, b.prefix+"*")

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	b.pubsub = sub

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				topic := strings.TrimPrefix(m.Channel, b.prefix)
				if err := b.local.Publish(ctx, topic, []byte(m.Payload)); err != nil {
					b.log.Debug().Err(err).Str("topic", topic).Msg("Dropping redis publication")
				}
			}
		}
	}()

	b.log.Info().Str("pattern", b.prefix+"*").Msg("Redis forwarder started")
	return nil
}

// Publish sends payload to every process subscribed to topic.
func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.rdb.Publish(ctx, b.prefix+topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers fn for publications forwarded from Redis.
func (b *RedisBus) Subscribe(topic string, fn Handler) (func(), error) {
	return b.local.Subscribe(topic, fn)
}

// Close stops forwarding and closes the Redis client.
func (b *RedisBus) Close() error {
	_ = b.local.Close()
	if b.pubsub != nil {
		_ = b.pubsub.Close()
	}
	return b.rdb.Close()
}
