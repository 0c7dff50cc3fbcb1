// Package runlog issues scrape run ids and records run boundaries in a
// durable key-value log. A run-start with no matching run-end is the failure
// signal monitoring looks for, so the two writes are deliberately separate.
package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TimeFormat is how run timestamps are serialized.
const TimeFormat = time.RFC3339

const counterKey = "runlog"

// Log is the run log contract used by the orchestrator. NextRunID must be
// atomic across concurrent runners; the log writes carry no transactional
// tie to the counter.
type Log interface {
	NextRunID(ctx context.Context) (int64, error)
	RecordStart(ctx context.Context, runID int64, network, session string, at time.Time) error
	RecordEnd(ctx context.Context, runID int64, network, session string, at time.Time) error
}

// RedisLog stores the run counter and the run log in Redis: an INCR counter
// under "runlog" and one key per phase under
// "runlog:<id>:<network>:<session>:<start|end>".
type RedisLog struct {
	rdb *redis.Client
}

// NewRedisLog creates a run log backed by the given Redis client.
func NewRedisLog(rdb *redis.Client) *RedisLog {
	return &RedisLog{rdb: rdb}
}

// NextRunID atomically increments the global run counter and returns the new
// value.
func (l *RedisLog) NextRunID(ctx context.Context) (int64, error) {
	id, err := l.rdb.Incr(ctx, counterKey).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing run counter: %w", err)
	}
	return id, nil
}

// RecordStart writes the run-start timestamp.
func (l *RedisLog) RecordStart(ctx context.Context, runID int64, network, session string, at time.Time) error {
	return l.record(ctx, runID, network, session, "start", at)
}

// RecordEnd writes the run-end timestamp.
func (l *RedisLog) RecordEnd(ctx context.Context, runID int64, network, session string, at time.Time) error {
	return l.record(ctx, runID, network, session, "end", at)
}

func (l *RedisLog) record(ctx context.Context, runID int64, network, session, phase string, at time.Time) error {
	key := fmt.Sprintf("%s:%d:%s:%s:%s", counterKey, runID, network, session, phase)
	if err := l.rdb.Set(ctx, key, at.Format(TimeFormat), 0).Err(); err != nil {
		return fmt.Errorf("recording run %s: %w", phase, err)
	}
	return nil
}
