package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"github.com/kursadbilgin/dnc-checker/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "dnc-checker:state:"

var _ repository.StateStore = (*RedisStateStore)(nil)

// RedisStateStore keeps the snapshot under a single string key.
type RedisStateStore struct {
	client *goredis.Client
	key    string
}

func NewRedisStateStore(client *goredis.Client, namespace string) (*RedisStateStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	key := stateKeyPrefix + repository.StateSlotKey
	if ns := strings.TrimSpace(namespace); ns != "" {
		key = stateKeyPrefix + ns + ":" + repository.StateSlotKey
	}

	return &RedisStateStore{client: client, key: key}, nil
}

func (s *RedisStateStore) Load(ctx context.Context) (*domain.SavedState, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load batch state: %w", err)
	}
	return repository.DecodeSavedState(payload)
}

func (s *RedisStateStore) Save(ctx context.Context, state domain.SavedState) error {
	payload, err := repository.EncodeSavedState(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save batch state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear batch state: %w", err)
	}
	return nil
}
