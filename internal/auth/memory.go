package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
)

// MemoryStore is a CredentialStore that lives only as long as the process.
type MemoryStore struct {
	mu     sync.RWMutex
	hashes map[Role]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hashes: make(map[Role]string)}
}

func (m *MemoryStore) Get(ctx context.Context, role Role) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hash, ok := m.hashes[role]
	if !ok {
		return "", fmt.Errorf("credential for %s %w", role, models.ErrNotFound)
	}
	return hash, nil
}

func (m *MemoryStore) Set(ctx context.Context, role Role, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hashes[role] = hash
	return nil
}
