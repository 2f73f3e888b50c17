package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

// ProgressCache keeps the last computed course rollup per learner so reads
// never re-derive it. A miss returns (nil, nil); the aggregator recomputes
// and writes back.
type ProgressCache interface {
	Get(ctx context.Context, learnerID, courseID uuid.UUID) (*domain.CourseRollup, error)
	Set(ctx context.Context, learnerID, courseID uuid.UUID, rollup domain.CourseRollup) error
	InvalidateCourse(ctx context.Context, courseID uuid.UUID) error
	Close() error
}

type progressCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewProgressCache(log *logger.Logger) (ProgressCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &progressCache{
		log: log.With("service", "RedisProgressCache"),
		rdb: rdb,
		ttl: 12 * time.Hour,
	}, nil
}

func key(learnerID, courseID uuid.UUID) string {
	return fmt.Sprintf("progress:%s:%s", learnerID, courseID)
}

func (c *progressCache) Get(ctx context.Context, learnerID, courseID uuid.UUID) (*domain.CourseRollup, error) {
	raw, err := c.rdb.Get(ctx, key(learnerID, courseID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("progress cache get: %w", err)
	}

	var rollup domain.CourseRollup
	if err := json.Unmarshal(raw, &rollup); err != nil {
		// A corrupt entry behaves like a miss so the aggregator heals it.
		c.log.Warn("dropping undecodable progress cache entry", "learner_id", learnerID, "course_id", courseID, "error", err)
		_ = c.rdb.Del(ctx, key(learnerID, courseID)).Err()
		return nil, nil
	}
	return &rollup, nil
}

func (c *progressCache) Set(ctx context.Context, learnerID, courseID uuid.UUID, rollup domain.CourseRollup) error {
	raw, err := json.Marshal(rollup)
	if err != nil {
		return fmt.Errorf("progress cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key(learnerID, courseID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("progress cache set: %w", err)
	}
	return nil
}

// InvalidateCourse drops every learner's cached rollup for the course. Used
// when the lesson set changes, so no reader sees a percentage computed
// against the old denominator.
func (c *progressCache) InvalidateCourse(ctx context.Context, courseID uuid.UUID) error {
	pattern := fmt.Sprintf("progress:*:%s", courseID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("progress cache invalidate: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("progress cache scan: %w", err)
	}
	return nil
}

func (c *progressCache) Close() error {
	return c.rdb.Close()
}
