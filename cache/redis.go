package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	BoardgameDetailPrefix  = "boardgame:detail:"
	BoardgameVersionPrefix = "boardgame:version:"
	DefaultTTL             = 10 * time.Minute
	versionTTL             = 24 * time.Hour
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrStaleVersion = errors.New("boardgame was invalidated while loading")
)

// BoardgameCache stores boardgame detail projections. Every invalidation
// bumps a per-boardgame version; SetBoardgame only stores a detail loaded
// under the current version.
type BoardgameCache interface {
	GetBoardgame(ctx context.Context, id uuid.UUID) (*models.BoardgameDetail, error)
	Version(ctx context.Context, id uuid.UUID) (int64, error)
	SetBoardgame(ctx context.Context, detail *models.BoardgameDetail, version int64) error
	InvalidateBoardgame(ctx context.Context, id uuid.UUID) error
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type RedisBoardgameCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisBoardgameCache(client *redis.Client, ttl time.Duration) *RedisBoardgameCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisBoardgameCache{redis: client, ttl: ttl}
}

func detailKey(id uuid.UUID) string {
	return BoardgameDetailPrefix + id.String()
}

func versionKey(id uuid.UUID) string {
	return BoardgameVersionPrefix + id.String()
}

func (c *RedisBoardgameCache) GetBoardgame(ctx context.Context, id uuid.UUID) (*models.BoardgameDetail, error) {
	raw, err := c.redis.Get(ctx, detailKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var detail models.BoardgameDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		// A payload from an older layout is treated as a miss and overwritten.
		return nil, ErrCacheMiss
	}
	return &detail, nil
}

// Version returns the invalidation counter; a boardgame never invalidated
// is at version 0.
func (c *RedisBoardgameCache) Version(ctx context.Context, id uuid.UUID) (int64, error) {
	v, err := c.redis.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version: %w", err)
	}
	return v, nil
}

// SetBoardgame writes detail only if the version key still holds version,
// checked under WATCH so a concurrent invalidation aborts the write.
func (c *RedisBoardgameCache) SetBoardgame(ctx context.Context, detail *models.BoardgameDetail, version int64) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal boardgame detail: %w", err)
	}

	vKey := versionKey(detail.ID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, detailKey(detail.ID), payload, c.ttl)
			return nil
		})
		return err
	}, vKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleVersion
	}
	return err
}

func (c *RedisBoardgameCache) InvalidateBoardgame(ctx context.Context, id uuid.UUID) error {
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, detailKey(id))
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), versionTTL)
		return nil
	})
	return err
}
