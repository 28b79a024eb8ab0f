package db

import (
	"context"
	"sync"
)

// MemoryCredentialRepository is a process-local credential store.
// Nothing survives a restart.
type MemoryCredentialRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryCredentialRepository creates an empty in-memory credential store.
func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{data: make(map[string]string)}
}

func (r *MemoryCredentialRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *MemoryCredentialRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

func (r *MemoryCredentialRepository) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}
