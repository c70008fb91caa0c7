package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Presence is telemetry only. Tokens are stateless and verified purely
// by signature and expiry; redis is never consulted when authorizing a
// request, so an unreachable redis degrades to missing counts, not
// failed logins.

const presenceKeyFmt = "presence:%s"

const presenceTTL = 30 * time.Minute

// Touch marks a user as recently active. A nil client is a no-op.
func Touch(ctx context.Context, rdb *redis.Client, userID uuid.UUID) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf(presenceKeyFmt, userID)
	return rdb.Set(ctx, key, time.Now().UTC().Unix(), presenceTTL).Err()
}

// Forget drops a user's presence mark, e.g. after self-deletion.
func Forget(ctx context.Context, rdb *redis.Client, userID uuid.UUID) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf(presenceKeyFmt, userID)
	return rdb.Del(ctx, key).Err()
}

// OnlineUserCount returns the number of users with a live presence
// mark.
func OnlineUserCount(ctx context.Context, rdb *redis.Client) (int, error) {
	if rdb == nil {
		return 0, nil
	}
	var cursor uint64
	users := make(map[string]struct{})
	for {
		keys, next, err := rdb.Scan(ctx, cursor, "presence:*", 100).Result()
		if err != nil {
			return 0, err
		}
		for _, key := range keys {
			if id, ok := strings.CutPrefix(key, "presence:"); ok && id != "" {
				users[id] = struct{}{}
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return len(users), nil
}
