package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/api_access_gate/internal/repository"
	"github.com/qs3c/api_access_gate/internal/testutil"
)

func TestUsageService_RecordAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewUsageService(repository.NewUsageRepository(db), nil)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Record(ctx, "alice", "write", true, at))
	require.NoError(t, svc.Record(ctx, "alice", "read", true, at))
	require.NoError(t, svc.Record(ctx, "alice", "read", false, at.Add(time.Minute)))
	require.NoError(t, svc.Record(ctx, "bob", "read", true, at))

	usage, err := svc.GetUsage(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", usage.UserID)
	require.Len(t, usage.Endpoints, 2)

	read := usage.Endpoints[0]
	assert.Equal(t, "read", read.Endpoint)
	assert.Equal(t, int64(1), read.AllowedCalls)
	assert.Equal(t, int64(1), read.DeniedCalls)
	assert.NotEmpty(t, read.LastAccessAt)

	write := usage.Endpoints[1]
	assert.Equal(t, "write", write.Endpoint)
	assert.Equal(t, int64(1), write.AllowedCalls)
	assert.Equal(t, int64(0), write.DeniedCalls)
}

func TestUsageService_GetUsage_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewUsageService(repository.NewUsageRepository(db), nil)

	usage, err := svc.GetUsage(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, usage.Endpoints)
	assert.Empty(t, usage.Endpoints)
}

func TestUsageService_PruneStale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewUsageService(repository.NewUsageRepository(db), nil)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, svc.Record(ctx, "alice", "read", true, now.Add(-10*24*time.Hour)))
	require.NoError(t, svc.Record(ctx, "alice", "write", true, now))

	cutoff := now.Add(-7 * 24 * time.Hour)

	count, err := svc.PruneStale(ctx, cutoff, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	usage, err := svc.GetUsage(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, usage.Endpoints, 2, "dry run keeps rows")

	count, err = svc.PruneStale(ctx, cutoff, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	usage, err = svc.GetUsage(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, usage.Endpoints, 1)
	assert.Equal(t, "write", usage.Endpoints[0].Endpoint)
}
