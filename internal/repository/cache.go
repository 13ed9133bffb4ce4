package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tabletop-club/table-scheduler/internal/config"
)

// ErrNotLockOwner is returned when an unlock finds the lock held under a
// different token. The caller's lock expired and someone else took it.
var ErrNotLockOwner = errors.New("repository: lock not owned by this client")

// Cache holds the rendered schedule text per date and the per-date writer
// lock. Every reservation mutation runs read-parse-mutate-serialize-write;
// the lock keeps two writers from interleaving on the same date's record.
type Cache struct {
	cfg    *config.Config
	client *redis.Client
}

func NewCache(cfg *config.Config, client *redis.Client) *Cache {
	return &Cache{
		cfg:    cfg,
		client: client,
	}
}

func scheduleKey(date string) string { return "schedule:" + date }

func lockKey(date string) string { return "schedule_lock:" + date }

// GetSchedule returns the cached serialized schedule for the date, or
// ("", nil) on a cache miss.
func (c *Cache) GetSchedule(ctx context.Context, date string) (string, error) {
	text, err := c.client.Get(ctx, scheduleKey(date)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Cache) SetSchedule(ctx context.Context, date, text string) error {
	expiration := time.Duration(c.cfg.Redis.CacheExpiration) * time.Second
	return c.client.Set(ctx, scheduleKey(date), text, expiration).Err()
}

func (c *Cache) DropSchedule(ctx context.Context, date string) error {
	return c.client.Del(ctx, scheduleKey(date)).Err()
}

// TryLockDate attempts to take the writer lock for a date. On success the
// returned token must be passed back to UnlockDate.
func (c *Cache) TryLockDate(ctx context.Context, date string) (bool, string, error) {
	token := uuid.NewString()
	expiration := time.Duration(c.cfg.Redis.LockExpiration) * time.Second

	acquired, err := c.client.SetNX(ctx, lockKey(date), token, expiration).Result()
	if err != nil {
		return false, "", err
	}
	if !acquired {
		return false, "", nil
	}
	return true, token, nil
}

// UnlockDate releases the writer lock, but only when it is still held under
// the caller's token. An already-expired lock unlocks as a no-op.
func (c *Cache) UnlockDate(ctx context.Context, date, token string) error {
	stored, err := c.client.Get(ctx, lockKey(date)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	if stored != token {
		return fmt.Errorf("%w: %s", ErrNotLockOwner, date)
	}

	return c.client.Del(ctx, lockKey(date)).Err()
}
