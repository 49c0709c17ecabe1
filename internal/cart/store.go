package cart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists one cart per session id. Saving an empty cart removes the
// persisted state entirely; loading missing or malformed state yields an
// empty cart.
type Store interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, c Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// FileStore keeps one text file per session in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(sessionID string) string {
	return filepath.Join(fs.dir, "cart_"+sessionID+".txt")
}

func (fs *FileStore) Load(_ context.Context, sessionID string) (Cart, error) {
	data, err := os.ReadFile(fs.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return Cart{}, nil
		}
		return nil, err
	}
	return Decode(string(data)), nil
}

func (fs *FileStore) Save(ctx context.Context, sessionID string, c Cart) error {
	if len(c) == 0 {
		return fs.Clear(ctx, sessionID)
	}
	return os.WriteFile(fs.path(sessionID), []byte(c.Encode()), 0o644)
}

func (fs *FileStore) Clear(_ context.Context, sessionID string) error {
	err := os.Remove(fs.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RedisStore keeps carts under "cart:<session>" keys with an expiry, for
// deployments where a local directory is not durable enough.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    30 * 24 * time.Hour,
	}
}

func (rs *RedisStore) key(sessionID string) string {
	return "cart:" + sessionID
}

func (rs *RedisStore) Load(ctx context.Context, sessionID string) (Cart, error) {
	text, err := rs.client.Get(ctx, rs.key(sessionID)).Result()
	if err == redis.Nil {
		return Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(text), nil
}

func (rs *RedisStore) Save(ctx context.Context, sessionID string, c Cart) error {
	if len(c) == 0 {
		return rs.Clear(ctx, sessionID)
	}
	return rs.client.Set(ctx, rs.key(sessionID), c.Encode(), rs.ttl).Err()
}

func (rs *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return rs.client.Del(ctx, rs.key(sessionID)).Err()
}
