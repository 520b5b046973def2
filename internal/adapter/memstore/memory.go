package memstore

import (
	"sync"

	"sentra/internal/domain"
)

// MemoryStore keeps credentials for the life of the process only. It backs
// sessions seeded from the environment, where nothing should touch disk.
type MemoryStore struct {
	mu    sync.RWMutex
	creds domain.Credentials
}

func NewMemoryStore(userToken string) *MemoryStore {
	return &MemoryStore{creds: domain.Credentials{UserToken: userToken}}
}

func (s *MemoryStore) Load() (domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, nil
}

func (s *MemoryStore) Save(creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
