// Package locks provides advisory per-event edit locks over redis so
// two staff browsers editing the same event see each other. The locks
// are cooperative: nothing enforces them, the UI just warns. With no
// redis configured everything fails open.
package locks

import (
	"context"
	"fmt"

	"time"

	"github.com/go-redis/redis/v8"

	"eventdesk/internal/logger"
)

type EventLocks struct {
	Client *redis.Client
	TTL    time.Duration
	Log    *logger.Logger
}

func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *EventLocks {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &EventLocks{Client: client, TTL: ttl, Log: log}
}

func lockKey(eventID string) string {
	return "event_lock:" + eventID
}

// Acquire takes the edit lock for an event on behalf of owner.
// Returns false when another owner holds it. Re-acquiring an owned
// lock refreshes its TTL.
func (l *EventLocks) Acquire(ctx context.Context, eventID, owner string) (bool, error) {
	if l.Client == nil {
		return true, nil
	}
	key := lockKey(eventID)
	ok, err := l.Client.SetNX(ctx, key, owner, l.TTL).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.Log.Debug("LOCK", fmt.Sprintf("acquired %s for %s", key, owner))
		return true, nil
	}
	holder, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		// Expired between SetNX and Get; retry once.
		return l.Client.SetNX(ctx, key, owner, l.TTL).Result()
	}
	if err != nil {
		return false, err
	}
	if holder == owner {
		if err := l.Client.Expire(ctx, key, l.TTL).Err(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Release drops the edit lock when owner still holds it.
func (l *EventLocks) Release(ctx context.Context, eventID, owner string) error {
	if l.Client == nil {
		return nil
	}
	key := lockKey(eventID)
	holder, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if holder != owner {
		return nil
	}
	if err := l.Client.Del(ctx, key).Err(); err != nil {
		return err
	}
	l.Log.Debug("LOCK", fmt.Sprintf("released %s for %s", key, owner))
	return nil
}

// Holder returns the current lock owner, or "" when unlocked.
func (l *EventLocks) Holder(ctx context.Context, eventID string) (string, error) {
	if l.Client == nil {
		return "", nil
	}
	holder, err := l.Client.Get(ctx, lockKey(eventID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return holder, err
}
