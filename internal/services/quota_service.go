package services

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/kondate-app/menu-helper/internal/repository"
	"github.com/redis/go-redis/v9"
)

// QuotaService admits or denies a suggestion attempt against the per-owner
// daily cap. dayKey is computed once per request by the caller so a day
// boundary cannot slip between check and increment.
type QuotaService interface {
	CheckAndIncrement(ctx context.Context, ownerID, dayKey string, limit int) (int, error)
}

// DBQuotaService keeps the counter on the owner's document-store record
// with a read-then-merge-write. Concurrent requests from the same owner may
// both read a stale count and both increment, so the cap is soft: overshoot
// by the number of racing requests is accepted. Denial performs no write.
type DBQuotaService struct {
	users *repository.UserRepository
}

func NewDBQuotaService(users *repository.UserRepository) *DBQuotaService {
	return &DBQuotaService{users: users}
}

func (s *DBQuotaService) CheckAndIncrement(ctx context.Context, ownerID, dayKey string, limit int) (int, error) {
	day, count, err := s.users.ReadUsage(ctx, ownerID)
	if err != nil {
		return 0, apperrors.NewDatabaseError(err)
	}

	if day == dayKey && count >= limit {
		return 0, apperrors.NewQuotaExceededError(limit)
	}

	newCount := 1
	if day == dayKey {
		newCount = count + 1
	}
	if err := s.users.WriteUsage(ctx, ownerID, dayKey, newCount); err != nil {
		return 0, apperrors.NewDatabaseError(err)
	}
	return newCount, nil
}

// RedisQuotaService is the strict variant: a single atomic increment with a
// ceiling, closing the race window the document-store version tolerates.
// The stale-day reset falls out of keying by day and letting old keys
// expire.
type RedisQuotaService struct {
	client *redis.Client
}

func NewRedisQuotaService(host, port string) (*RedisQuotaService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisQuotaService{client: client}, nil
}

func (s *RedisQuotaService) CheckAndIncrement(ctx context.Context, ownerID, dayKey string, limit int) (int, error) {
	key := fmt.Sprintf("quota:%s:%s", ownerID, dayKey)

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, apperrors.NewDatabaseError(err)
	}
	if n == 1 {
		// Keys outlive the reporting day slightly; staleness is handled
		// by the day key, the TTL only reclaims memory.
		s.client.Expire(ctx, key, 48*time.Hour)
	}
	if n > int64(limit) {
		// Undo the overshoot so the stored count stays at the ceiling.
		s.client.Decr(ctx, key)
		return 0, apperrors.NewQuotaExceededError(limit)
	}
	return int(n), nil
}
