// Package kv provides the key-value storages the vocabulary collection is
// persisted in. Every backend stores opaque byte values under string keys.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Storage is a minimal synchronous key-value store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open returns the storage for the named backend. dataDir is used by the file
// and sqlite backends, dsn by postgres (and by sqlite when non-empty).
func Open(ctx context.Context, backend, dataDir, dsn string) (Storage, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(dataDir)
	case BackendSQLite:
		if dsn == "" {
			dsn = sqlitePath(dataDir)
		}
		return OpenSQL(ctx, "sqlite3", dsn)
	case BackendPostgres:
		if dsn == "" {
			return nil, errors.New("postgres backend requires a DSN")
		}
		return OpenSQL(ctx, "postgres", dsn)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

// Memory keeps values in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error { return nil }
