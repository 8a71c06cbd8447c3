package repository

import (
	"context"
	"testing"

	"fitsync/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCredentialRepository is a testify double for repository.CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

// NewMockCredentialRepository creates the mock and asserts its expectations on cleanup.
func NewMockCredentialRepository(t *testing.T) *MockCredentialRepository {
	m := &MockCredentialRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCredentialRepository) FindByParticipantID(ctx context.Context, participantID string) (*entity.Credential, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Upsert(ctx context.Context, credential *entity.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *MockCredentialRepository) DeleteByParticipantID(ctx context.Context, participantID string) error {
	return m.Called(ctx, participantID).Error(0)
}
