// Package redisstore keeps the dashboard layouts document in Redis and publishes
// dashboard events over Redis pub/sub.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

const defaultPrefix = "dashboard:"

// Store implements dashboard.KeyValueStore on a Redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithPrefix namespaces every key. An empty prefix stores keys as given.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires stored values after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New wraps an existing client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewFromURL parses a redis:// URL and connects a client. The caller owns Close.
func NewFromURL(rawURL string, opts ...Option) (*Store, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redisstore: parse url: %w", err)
	}
	return New(redis.NewClient(options), opts...), nil
}

// Client exposes the underlying client.
func (s *Store) Client() redis.UniversalClient {
	return s.client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Get returns the value for key; a missing key is not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redisstore: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redisstore: delete %s: %w", key, err)
	}
	return nil
}

// PublishDashboardEvent sends the event as JSON on the prefixed channel.
func (s *Store) PublishDashboardEvent(ctx context.Context, channel string, event dashboard.WidgetEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redisstore: encode event: %w", err)
	}
	if err := s.client.Publish(ctx, s.prefix+channel, payload).Err(); err != nil {
		return fmt.Errorf("redisstore: publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe decodes events published on channel until ctx is done. Malformed messages
// are skipped.
func (s *Store) Subscribe(ctx context.Context, channel string) (<-chan dashboard.WidgetEvent, error) {
	sub := s.client.Subscribe(ctx, s.prefix+channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redisstore: subscribe %s: %w", channel, err)
	}
	out := make(chan dashboard.WidgetEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event dashboard.WidgetEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

var (
	_ dashboard.KeyValueStore  = (*Store)(nil)
	_ dashboard.EventPublisher = (*Store)(nil)
)
