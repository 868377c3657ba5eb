package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
)

// Memory is an in-process Store. It counts calls so tests can assert which
// operations a workflow performed.
type Memory struct {
	mu      sync.Mutex
	secrets map[string]string

	Fetches int
	Puts    int
	Lists   int

	// Err, when set, is returned by every call.
	Err error
}

// NewMemory returns a store seeded with secrets.
func NewMemory(secrets map[string]string) *Memory {
	m := &Memory{secrets: make(map[string]string)}
	for id, payload := range secrets {
		m.secrets[id] = payload
	}
	return m
}

func (m *Memory) Fetch(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Fetches++
	if m.Err != nil {
		return "", m.Err
	}

	payload, ok := m.secrets[id]
	if !ok {
		return "", fmt.Errorf("%w: %w: %s", kerrors.ErrStoreOperation, kerrors.ErrSecretNotFound, id)
	}
	return payload, nil
}

func (m *Memory) Put(_ context.Context, id, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Puts++
	if m.Err != nil {
		return m.Err
	}

	m.secrets[id] = payload
	return nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Lists++
	if m.Err != nil {
		return nil, m.Err
	}

	ids := make([]string, 0, len(m.secrets))
	for id := range m.secrets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Payload returns the stored payload without counting a fetch.
func (m *Memory) Payload(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.secrets[id]
	return payload, ok
}
