package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/repo"
)

func newTestRepo(t *testing.T) (*repo.RedisRunRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return repo.NewRedisRunRepository(rdb, time.Hour), mr
}

func sampleRecord(runID string) *model.RunRecord {
	state := model.NewTripState(runID, "5 days in Paris")
	classification := model.LabelInScope
	state.Classification = &classification
	state.Params = &model.TripParams{Destination: "Paris", Days: 5}
	state.TotalCostUSD = 0.042

	now := time.Now().UTC().Truncate(time.Second)
	return &model.RunRecord{
		RunID: runID,
		State: state,
		Trace: []model.TraceEntry{
			{Stage: "gate", Timestamp: now, Outcome: model.OutcomeOK},
			{Stage: "analyzer", Timestamp: now, Outcome: model.OutcomeOK},
			{Stage: "weather", Timestamp: now, Outcome: model.OutcomeDegraded},
		},
		CompletedAt: now,
	}
}

func TestRunRepository_RoundTrip(t *testing.T) {
	r, mr := newTestRepo(t)
	ctx := context.Background()

	record := sampleRecord("run-42")
	require.NoError(t, r.SaveRecord(ctx, record))

	loaded, err := r.LoadRecord(ctx, "run-42")
	require.NoError(t, err)

	assert.Equal(t, "run-42", loaded.RunID)
	assert.Equal(t, "Paris", loaded.State.Params.Destination)
	assert.Equal(t, model.LabelInScope, *loaded.State.Classification)
	assert.InDelta(t, 0.042, loaded.State.TotalCostUSD, 1e-9)

	require.Len(t, loaded.Trace, 3)
	assert.Equal(t, "gate", loaded.Trace[0].Stage)
	assert.Equal(t, model.OutcomeDegraded, loaded.Trace[2].Outcome)

	// both keys carry the TTL
	assert.Greater(t, mr.TTL("run:run-42:record"), time.Duration(0))
	assert.Greater(t, mr.TTL("run:run-42:trace"), time.Duration(0))
}

func TestRunRepository_LoadMissing(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.LoadRecord(context.Background(), "no-such-run")
	require.Error(t, err)

	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestRunRepository_SaveOverwrites(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	first := sampleRecord("run-42")
	require.NoError(t, r.SaveRecord(ctx, first))

	second := sampleRecord("run-42")
	second.Trace = second.Trace[:1]
	summary := "short version"
	second.State.Summary = &summary
	require.NoError(t, r.SaveRecord(ctx, second))

	loaded, err := r.LoadRecord(ctx, "run-42")
	require.NoError(t, err)
	assert.Equal(t, "short version", *loaded.State.Summary)
	assert.Len(t, loaded.Trace, 1, "a re-save replaces the trace instead of appending")
}

func TestRunRepository_Delete(t *testing.T) {
	r, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SaveRecord(ctx, sampleRecord("run-42")))
	require.NoError(t, r.DeleteRecord(ctx, "run-42"))

	_, err := r.LoadRecord(ctx, "run-42")
	require.Error(t, err)
	assert.False(t, mr.Exists("run:run-42:trace"))
}

func TestRunRepository_EmptyTrace(t *testing.T) {
	r, mr := newTestRepo(t)
	ctx := context.Background()

	record := sampleRecord("run-42")
	record.Trace = nil
	require.NoError(t, r.SaveRecord(ctx, record))
	assert.False(t, mr.Exists("run:run-42:trace"))

	loaded, err := r.LoadRecord(ctx, "run-42")
	require.NoError(t, err)
	assert.Empty(t, loaded.Trace)
}
