package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Topic names a collection whose snapshot must be reloaded.
type Topic string

const (
	TopicLeads    Topic = "leads"
	TopicComments Topic = "comments"
)

// Notifier carries "collection changed" signals between writers and the
// snapshot hubs, possibly across service instances.
type Notifier interface {
	Notify(ctx context.Context, topic Topic) error
	// Listen registers fn and returns once the registration is live.
	Listen(ctx context.Context, fn func(Topic)) error
	Close() error
}

// LocalNotifier delivers signals synchronously inside one process.
type LocalNotifier struct {
	mu       sync.RWMutex
	handlers []func(Topic)
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{}
}

func (n *LocalNotifier) Notify(_ context.Context, topic Topic) error {
	n.mu.RLock()
	handlers := n.handlers
	n.mu.RUnlock()

	for _, fn := range handlers {
		fn(topic)
	}
	return nil
}

func (n *LocalNotifier) Listen(_ context.Context, fn func(Topic)) error {
	n.mu.Lock()
	n.handlers = append(n.handlers, fn)
	n.mu.Unlock()
	return nil
}

func (n *LocalNotifier) Close() error {
	n.mu.Lock()
	n.handlers = nil
	n.mu.Unlock()
	return nil
}

const DefaultRedisChannel = "lms:changes"

// RedisNotifier publishes change signals on a redis channel so that every
// instance sharing the database refreshes its subscribers.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
	log     *zap.Logger

	mu      sync.Mutex
	pubsubs []*redis.PubSub
	wg      sync.WaitGroup
}

func NewRedisNotifier(rdb *redis.Client, channel string, log *zap.Logger) *RedisNotifier {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisNotifier{rdb: rdb, channel: channel, log: log}
}

// NewRedisNotifierFromURL parses a redis:// URL and pings the server.
func NewRedisNotifierFromURL(ctx context.Context, url string, log *zap.Logger) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisNotifier(rdb, DefaultRedisChannel, log), nil
}

func (n *RedisNotifier) Notify(ctx context.Context, topic Topic) error {
	if err := n.rdb.Publish(ctx, n.channel, string(topic)).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (n *RedisNotifier) Listen(ctx context.Context, fn func(Topic)) error {
	ps := n.rdb.Subscribe(ctx, n.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return fmt.Errorf("subscribe %s: %w", n.channel, err)
	}

	n.mu.Lock()
	n.pubsubs = append(n.pubsubs, ps)
	n.mu.Unlock()

	ch := ps.Channel()
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for msg := range ch {
			switch topic := Topic(msg.Payload); topic {
			case TopicLeads, TopicComments:
				fn(topic)
			default:
				n.log.Warn("Ignoring unknown change topic", zap.String("payload", msg.Payload))
			}
		}
	}()
	return nil
}

func (n *RedisNotifier) Close() error {
	n.mu.Lock()
	pubsubs := n.pubsubs
	n.pubsubs = nil
	n.mu.Unlock()

	for _, ps := range pubsubs {
		ps.Close()
	}
	n.wg.Wait()
	return n.rdb.Close()
}
