// Package storage keeps the diagnosis evaluation log and the dashboard
// snapshot cache. Evaluations live in a bounded in-memory ring and are
// optionally persisted to local JSON files or Redis; the engine itself never
// reads them back, so this is an audit surface rather than a computation
// cache.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hostlens/revpar-advisor/internal/config"
	"github.com/hostlens/revpar-advisor/internal/diagnosis"
)

const evaluationKeyPrefix = "revpar:evaluation:"

// Storage persists diagnosis evaluations and caches dashboard snapshots.
type Storage struct {
	config config.StorageConfig
	mu     sync.RWMutex

	evaluations map[string]*diagnosis.Result
	order       []string // insertion order, oldest first

	redis *redis.Client
}

// New creates a Storage for cfg. A Redis backend that cannot be reached
// degrades to memory-only with a warning; a local backend that cannot create
// its directory is an error since persistence was explicitly requested.
func New(cfg config.StorageConfig) (*Storage, error) {
	s := &Storage{
		config:      cfg,
		evaluations: make(map[string]*diagnosis.Result),
	}

	switch cfg.Type {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("WARN: redis at %s unavailable, falling back to memory: %v", cfg.RedisAddr, err)
		} else {
			s.redis = client
		}
	case "local":
		if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}

	return s, nil
}

// NewWithRedis wraps an existing Redis client (used by tests).
func NewWithRedis(cfg config.StorageConfig, client *redis.Client) *Storage {
	return &Storage{
		config:      cfg,
		evaluations: make(map[string]*diagnosis.Result),
		redis:       client,
	}
}

// SaveEvaluation records one diagnosis in the ring and, depending on the
// backend, on disk or in Redis. Persistence failures are logged, not
// propagated; losing an audit row must not fail the diagnosis response.
func (s *Storage) SaveEvaluation(ctx context.Context, result *diagnosis.Result) {
	s.mu.Lock()
	s.evaluations[result.ID] = result
	s.order = append(s.order, result.ID)
	for len(s.order) > s.config.HistoryLimit && s.config.HistoryLimit > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.evaluations, oldest)
	}
	s.mu.Unlock()

	switch s.config.Type {
	case "redis":
		if s.redis == nil {
			return
		}
		data, err := json.Marshal(result)
		if err != nil {
			log.Printf("ERROR: encoding evaluation %s: %v", result.ID, err)
			return
		}
		if err := s.redis.Set(ctx, evaluationKeyPrefix+result.ID, data, 24*time.Hour).Err(); err != nil {
			log.Printf("ERROR: persisting evaluation %s to redis: %v", result.ID, err)
		}
	case "local":
		if err := s.saveToFile(result); err != nil {
			log.Printf("ERROR: persisting evaluation %s: %v", result.ID, err)
		}
	}
}

// GetEvaluation returns one evaluation by ID, consulting the ring first and
// then the Redis backend.
func (s *Storage) GetEvaluation(ctx context.Context, id string) (*diagnosis.Result, bool) {
	s.mu.RLock()
	result, ok := s.evaluations[id]
	s.mu.RUnlock()
	if ok {
		return result, true
	}

	if s.config.Type == "redis" && s.redis != nil {
		data, err := s.redis.Get(ctx, evaluationKeyPrefix+id).Bytes()
		if err == nil {
			var r diagnosis.Result
			if err := json.Unmarshal(data, &r); err == nil {
				return &r, true
			}
		}
	}
	return nil, false
}

// RecentEvaluations returns up to limit evaluations, newest first.
func (s *Storage) RecentEvaluations(limit int) []*diagnosis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]*diagnosis.Result, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		if r, ok := s.evaluations[s.order[i]]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *Storage) saveToFile(result *diagnosis.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding evaluation: %w", err)
	}
	path := filepath.Join(s.config.LocalPath, result.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CacheSnapshot stores a rendered dashboard payload under key with the
// configured TTL. No-op without Redis.
func (s *Storage) CacheSnapshot(ctx context.Context, key string, payload []byte) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, "revpar:snapshot:"+key, payload, s.config.CacheTTL()).Err(); err != nil {
		log.Printf("ERROR: caching snapshot %s: %v", key, err)
	}
}

// GetSnapshot returns a cached dashboard payload, or nil on miss or when no
// Redis backend is wired.
func (s *Storage) GetSnapshot(ctx context.Context, key string) []byte {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, "revpar:snapshot:"+key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

// Stats reports cache occupancy for the health endpoint.
func (s *Storage) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"type":        s.config.Type,
		"evaluations": len(s.evaluations),
		"redis":       s.redis != nil,
	}
}
