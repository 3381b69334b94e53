package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// RedisRunRepository persists one record per run: the terminal state
// snapshot under run:<id>:record and the ordered stage trace under
// run:<id>:trace, both expiring together.
type RedisRunRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisRunRepository(rdb redis.Cmdable, ttl time.Duration) *RedisRunRepository {
	return &RedisRunRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisRunRepository) recordKey(runID string) string {
	return fmt.Sprintf("run:%s:record", runID)
}

func (r *RedisRunRepository) traceKey(runID string) string {
	return fmt.Sprintf("run:%s:trace", runID)
}

func (r *RedisRunRepository) SaveRecord(ctx context.Context, record *model.RunRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		logx.Error().Err(err).Str("run_id", record.RunID).Msg("failed to marshal run record")
		return fmt.Errorf("marshal run record: %w", err)
	}

	key := r.recordKey(record.RunID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to store run record")
		return errx.WrapRedis(err)
	}

	traceKey := r.traceKey(record.RunID)
	if len(record.Trace) > 0 {
		rows := make([]interface{}, 0, len(record.Trace))
		for i, entry := range record.Trace {
			eb, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("marshal trace entry at index %d: %w", i, err)
			}
			rows = append(rows, eb)
		}
		if err := r.rdb.Del(ctx, traceKey).Err(); err != nil {
			return errx.WrapRedis(err)
		}
		if err := r.rdb.RPush(ctx, traceKey, rows...).Err(); err != nil {
			logx.Error().Err(err).Str("key", traceKey).Msg("failed to push trace entries")
			return errx.WrapRedis(err)
		}
		if r.ttl > 0 {
			if ok, err := r.rdb.Expire(ctx, traceKey, r.ttl).Result(); err != nil {
				return errx.WrapRedis(err)
			} else if !ok {
				logx.Warn().Str("key", traceKey).Dur("ttl", r.ttl).Msg("failed to set TTL on trace key")
			}
		}
	}

	return nil
}

func (r *RedisRunRepository) LoadRecord(ctx context.Context, runID string) (*model.RunRecord, error) {
	key := r.recordKey(runID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to load run record")
		}
		return nil, errx.WrapRedis(err)
	}

	var record model.RunRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logx.Error().Err(err).Str("run_id", runID).Msg("failed to unmarshal run record")
		return nil, fmt.Errorf("unmarshal run record: %w", err)
	}

	// trace is stored separately; prefer the list when present
	rows, err := r.rdb.LRange(ctx, r.traceKey(runID), 0, -1).Result()
	if err == nil && len(rows) > 0 {
		trace := make([]model.TraceEntry, 0, len(rows))
		for i, row := range rows {
			var entry model.TraceEntry
			if err := json.Unmarshal([]byte(row), &entry); err != nil {
				return nil, fmt.Errorf("unmarshal trace entry at index %d: %w", i, err)
			}
			trace = append(trace, entry)
		}
		record.Trace = trace
	}

	return &record, nil
}

func (r *RedisRunRepository) DeleteRecord(ctx context.Context, runID string) error {
	if err := r.rdb.Del(ctx, r.recordKey(runID), r.traceKey(runID)).Err(); err != nil {
		logx.Error().Err(err).Str("run_id", runID).Msg("failed to delete run record")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.RunRepository = (*RedisRunRepository)(nil)
