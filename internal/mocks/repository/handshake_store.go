package repository

import (
	"testing"

	"fitsync/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockHandshakeStore is a testify double for repository.HandshakeStore.
type MockHandshakeStore struct {
	mock.Mock
}

// NewMockHandshakeStore creates the mock and asserts its expectations on cleanup.
func NewMockHandshakeStore(t *testing.T) *MockHandshakeStore {
	m := &MockHandshakeStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockHandshakeStore) Put(sessionID string, handshake entity.Handshake) {
	m.Called(sessionID, handshake)
}

func (m *MockHandshakeStore) Take(sessionID string) (entity.Handshake, error) {
	args := m.Called(sessionID)

	return args.Get(0).(entity.Handshake), args.Error(1)
}

func (m *MockHandshakeStore) Clear(sessionID string) {
	m.Called(sessionID)
}
