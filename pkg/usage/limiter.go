package usage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLimitExceeded is returned when a user has used up today's chat quota.
var ErrLimitExceeded = fmt.Errorf("daily chat limit exceeded")

// Limiter enforces a per-user daily turn quota backed by Redis. Counters
// live under chat_quota:<username>:<yyyy-mm-dd> and expire on their own.
type Limiter struct {
	client   *redis.Client
	dailyMax int
	logger   *log.Logger
}

func NewLimiter(client *redis.Client, dailyMax int, logger *log.Logger) *Limiter {
	return &Limiter{
		client:   client,
		dailyMax: dailyMax,
		logger:   logger,
	}
}

// Allow consumes one turn from the user's daily quota. It fails open:
// quota enforcement is never worth dropping a support conversation, so any
// Redis error grants the turn and logs the cause. A nil client disables
// limiting entirely.
func (l *Limiter) Allow(ctx context.Context, username string) error {
	if l.client == nil || l.dailyMax <= 0 {
		return nil
	}

	key := fmt.Sprintf("chat_quota:%s:%s", username, time.Now().UTC().Format("2006-01-02"))

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Printf("[LIMITER] redis incr failed, allowing turn: %v", err)
		return nil
	}

	if count == 1 {
		// First turn today, start the day's expiry clock.
		if err := l.client.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
			l.logger.Printf("[LIMITER] redis expire failed: %v", err)
		}
	}

	if count > int64(l.dailyMax) {
		return ErrLimitExceeded
	}

	return nil
}
