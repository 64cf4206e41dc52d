package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/outpost"
)

// Storage is a durable key-value store.
// Get returns outpost.ErrNotExist for keys never Put.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, val []byte) error
}

var (
	_ Storage = (*FileStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
	_ Storage = (*RedisStorage)(nil)
)

// FileStorage keeps keys in a single JSON document on disk.
// Every Put rewrites the document through a temporary file renamed into place.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage constructs a FileStorage at path, creating its parent directories.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty state file path", outpost.ErrBadConfig)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %s", outpost.ErrBadConfig, err)
	}

	return &FileStorage{path: path}, nil
}

func (fs *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc, err := fs.read()
	if err != nil {
		return nil, err
	}

	val, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", outpost.ErrNotExist, key)
	}

	return []byte(val), nil
}

func (fs *FileStorage) Put(_ context.Context, key string, val []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc, err := fs.read()
	if err != nil {
		doc = make(map[string]string)
	}
	doc[key] = string(val)

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), fs.path)
}

// read returns the document or an empty one when the file does not exist yet.
// A corrupt document reads as empty.
func (fs *FileStorage) read() (map[string]string, error) {
	doc := make(map[string]string)
	b, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(b, &doc); err != nil {
		return make(map[string]string), nil
	}

	return doc, nil
}

// MemoryStorage keeps keys in process memory.
type MemoryStorage struct {
	mu   sync.Mutex
	vals map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{vals: make(map[string][]byte)}
}

func (ms *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	val, ok := ms.vals[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", outpost.ErrNotExist, key)
	}

	return append([]byte(nil), val...), nil
}

func (ms *MemoryStorage) Put(_ context.Context, key string, val []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.vals[key] = append([]byte(nil), val...)
	return nil
}

// RedisStorage keeps keys in Redis, prefixed with a namespace.
type RedisStorage struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisStorage constructs a RedisStorage connecting to addr.
// NewRedisStorage pings the server and errors if it cannot be reached.
func NewRedisStorage(ctx context.Context, addr, pass string) (*RedisStorage, error) {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: pass})
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: failed reaching Redis at %s: %s", outpost.ErrBadConfig, addr, err)
	}

	return &RedisStorage{client: c, namespace: "outpost:"}, nil
}

func (rs *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := rs.client.Get(ctx, rs.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", outpost.ErrNotExist, key)
	}

	return b, err
}

func (rs *RedisStorage) Put(ctx context.Context, key string, val []byte) error {
	return rs.client.Set(ctx, rs.namespace+key, val, 0).Err()
}

// Close releases the connection pool.
func (rs *RedisStorage) Close() error { return rs.client.Close() }
