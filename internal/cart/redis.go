package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 5

// RedisStore keeps carts as JSON values. Reads and writes both restart the TTL.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new RedisStore instance
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: "cart:",
	}
}

func (s *RedisStore) key(userID uuid.UUID) string {
	return s.keyPrefix + userID.String()
}

func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	return s.decode(userID, s.client.GetEx(ctx, s.key(userID), s.ttl))
}

// Update runs fn inside a WATCH transaction so concurrent edits of one cart are not lost
func (s *RedisStore) Update(ctx context.Context, userID uuid.UUID, fn func(*Cart) error) (*Cart, error) {
	key := s.key(userID)
	var result *Cart

	txf := func(tx *redis.Tx) error {
		c, err := s.decode(userID, tx.Get(ctx, key))
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = c
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, fmt.Errorf("cart update for %s: too much contention", userID)
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

func (s *RedisStore) decode(userID uuid.UUID, cmd *redis.StringCmd) (*Cart, error) {
	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return New(userID), nil
	}
	if err != nil {
		return nil, err
	}

	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []Line{}
	}
	return &cart, nil
}
