package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// ClientIDStore keeps the installation's client id under a single key so
// several server processes share one identity. The key never expires.
type ClientIDStore struct {
	client *redis.Client
	key    string
	log    zerolog.Logger
}

func NewClientIDStore(client *redis.Client, key string, log zerolog.Logger) *ClientIDStore {
	return &ClientIDStore{client: client, key: key, log: log}
}

func (s *ClientIDStore) Load(ctx context.Context) (domain.ID, bool, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get %s: %w", s.key, err)
	}
	id, err := domain.ParseID(val)
	if err != nil {
		return 0, false, fmt.Errorf("get %s: %w", s.key, err)
	}
	return id, id != 0, nil
}

// SaveIfAbsent uses SETNX; when the key already exists the stored id wins.
func (s *ClientIDStore) SaveIfAbsent(ctx context.Context, id domain.ID) (domain.ID, error) {
	set, err := s.client.SetNX(ctx, s.key, strconv.FormatInt(int64(id), 10), 0).Result()
	if err != nil {
		return 0, fmt.Errorf("setnx %s: %w", s.key, err)
	}
	if set {
		s.log.Info().Str("key", s.key).Stringer("client_id", id).Msg("client id saved")
		return id, nil
	}

	stored, ok, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("key %s holds no client id", s.key)
	}
	return stored, nil
}

// Ping checks the Redis connection.
func (s *ClientIDStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
