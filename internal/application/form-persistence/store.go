// internal/application/form-persistence/store.go
package formpersistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"candidate-intake/internal/common/config"
	"candidate-intake/internal/common/database"
)

// ErrNoSnapshot is returned by Store.Load when nothing is saved.
var ErrNoSnapshot = errors.New("no saved snapshot")

// Store is a single-key snapshot slot. Implementations assume one writer.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
	Backend() string
}

// FileStore keeps the snapshot as <dir>/<key>.json.
type FileStore struct {
	path string
}

func NewFileStore(dir, key string) *FileStore {
	return &FileStore{path: filepath.Join(dir, key+".json")}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Backend() string { return "file" }

func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Save replaces the file atomically through a temp file in the same directory.
func (s *FileStore) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

// RedisStore keeps the snapshot under one Redis key with an optional TTL.
type RedisStore struct {
	client *database.RedisClient
	key    string
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Backend() string { return "redis" }

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}
	return []byte(val), nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, s.ttl); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}

// NewStore builds the configured backend. The returned close function
// releases backend resources and is never nil.
func NewStore(cfg config.PersistenceConfig, redisCfg config.RedisConfig) (Store, func() error, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Directory, cfg.StorageKey), func() error { return nil }, nil
	case "redis":
		client, err := database.NewRedis(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		ttl := time.Duration(cfg.TTL) * time.Second
		return NewRedisStore(client, cfg.StorageKey, ttl), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence backend %q", cfg.Backend)
	}
}
