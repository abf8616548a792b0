package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostlens/revpar-advisor/internal/config"
	"github.com/hostlens/revpar-advisor/internal/diagnosis"
)

func memoryConfig(limit int) config.StorageConfig {
	return config.StorageConfig{Type: "memory", HistoryLimit: limit, CacheTTLSecs: 300}
}

func TestSaveAndGetEvaluation(t *testing.T) {
	s, err := New(memoryConfig(10))
	require.NoError(t, err)

	result := &diagnosis.Result{ID: "eval-1", Stage: diagnosis.StageResult{Stage: diagnosis.StagePremium}}
	s.SaveEvaluation(context.Background(), result)

	got, ok := s.GetEvaluation(context.Background(), "eval-1")
	require.True(t, ok)
	assert.Equal(t, diagnosis.StagePremium, got.Stage.Stage)

	_, ok = s.GetEvaluation(context.Background(), "missing")
	assert.False(t, ok)
}

func TestHistoryLimitEvictsOldest(t *testing.T) {
	s, err := New(memoryConfig(3))
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c", "d"} {
		s.SaveEvaluation(context.Background(), &diagnosis.Result{ID: id})
	}

	_, ok := s.GetEvaluation(context.Background(), "a")
	assert.False(t, ok, "oldest evaluation should be evicted")

	recent := s.RecentEvaluations(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].ID, "newest first")
	assert.Equal(t, "b", recent[2].ID)
}

func TestRecentEvaluationsLimit(t *testing.T) {
	s, err := New(memoryConfig(10))
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		s.SaveEvaluation(context.Background(), &diagnosis.Result{ID: id})
	}

	recent := s.RecentEvaluations(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
}

func TestLocalPersistence(t *testing.T) {
	dir := t.TempDir()
	s, err := New(config.StorageConfig{Type: "local", LocalPath: dir, HistoryLimit: 10})
	require.NoError(t, err)

	s.SaveEvaluation(context.Background(), &diagnosis.Result{ID: "eval-local"})

	assert.FileExists(t, filepath.Join(dir, "eval-local.json"))
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := config.StorageConfig{Type: "redis", RedisAddr: mr.Addr(), HistoryLimit: 1, CacheTTLSecs: 60}
	s := NewWithRedis(cfg, client)

	ctx := context.Background()
	s.SaveEvaluation(ctx, &diagnosis.Result{ID: "eval-r1"})
	s.SaveEvaluation(ctx, &diagnosis.Result{ID: "eval-r2"})

	// eval-r1 has been evicted from the ring but survives in redis.
	got, ok := s.GetEvaluation(ctx, "eval-r1")
	require.True(t, ok)
	assert.Equal(t, "eval-r1", got.ID)
}

func TestSnapshotCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewWithRedis(config.StorageConfig{Type: "redis", CacheTTLSecs: 60}, client)

	ctx := context.Background()
	assert.Nil(t, s.GetSnapshot(ctx, "dashboard"))

	s.CacheSnapshot(ctx, "dashboard", []byte(`{"ok":true}`))
	assert.Equal(t, []byte(`{"ok":true}`), s.GetSnapshot(ctx, "dashboard"))
}

func TestSnapshotCacheWithoutRedis(t *testing.T) {
	s, err := New(memoryConfig(10))
	require.NoError(t, err)

	s.CacheSnapshot(context.Background(), "dashboard", []byte("x"))
	assert.Nil(t, s.GetSnapshot(context.Background(), "dashboard"))
}
