package repository

import (
	"testing"

	domainrepo "fitsync/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockArtifactStore is a testify double for repository.ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

// NewMockArtifactStore creates the mock and asserts its expectations on cleanup.
func NewMockArtifactStore(t *testing.T) *MockArtifactStore {
	m := &MockArtifactStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockArtifactStore) Write(key domainrepo.ArtifactKey, raw []byte) error {
	return m.Called(key, raw).Error(0)
}

func (m *MockArtifactStore) WriteError(key domainrepo.ArtifactKey, message string) error {
	return m.Called(key, message).Error(0)
}

func (m *MockArtifactStore) WriteProfile(participantID string, raw []byte) error {
	return m.Called(participantID, raw).Error(0)
}

func (m *MockArtifactStore) Read(key domainrepo.ArtifactKey) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArtifactStore) ReadProfile(participantID string) ([]byte, error) {
	args := m.Called(participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArtifactStore) ExportPath(name string) (string, error) {
	args := m.Called(name)

	return args.String(0), args.Error(1)
}
