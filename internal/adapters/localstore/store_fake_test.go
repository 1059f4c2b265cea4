package localstore_adapter

import (
	"context"
	"errors"
	"sync"

	"miniapp-service/internal/core/port"

	"github.com/google/uuid"
)

type storeEntry struct {
	userID uuid.UUID
	key    string
}

// memStore - in-memory реализация StorePort для тестов.
type memStore struct {
	mu     sync.Mutex
	values map[storeEntry][]byte

	failReads  bool
	failWrites bool
}

func newMemStore() *memStore {
	return &memStore{values: make(map[storeEntry][]byte)}
}

func (s *memStore) Get(ctx context.Context, userID uuid.UUID, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, false, errors.New("storage read failure")
	}
	v, ok := s.values[storeEntry{userID, key}]
	return v, ok, nil
}

func (s *memStore) Set(ctx context.Context, userID uuid.UUID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return errors.New("storage write failure")
	}
	s.values[storeEntry{userID, key}] = value
	return nil
}

func (s *memStore) Remove(ctx context.Context, userID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, storeEntry{userID, key})
	return nil
}

func (s *memStore) put(userID uuid.UUID, key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[storeEntry{userID, key}] = value
}

// directDebounce пишет сразу, без окна: тестам репозиториев коалесцирование
// не важно, оно проверяется отдельно в тестах DebouncedWriter.
type directDebounce struct {
	store port.StorePort
}

func (d *directDebounce) Set(ctx context.Context, userID uuid.UUID, key string, value []byte) {
	_ = d.store.Set(ctx, userID, key, value)
}

func (d *directDebounce) Flush(ctx context.Context, userID uuid.UUID, key string) error {
	return nil
}
