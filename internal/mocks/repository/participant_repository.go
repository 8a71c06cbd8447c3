// Package repository contains hand-written testify doubles for the
// persistence interfaces.
package repository

import (
	"context"
	"testing"

	"fitsync/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockParticipantRepository is a testify double for repository.ParticipantRepository.
type MockParticipantRepository struct {
	mock.Mock
}

// NewMockParticipantRepository creates the mock and asserts its expectations on cleanup.
func NewMockParticipantRepository(t *testing.T) *MockParticipantRepository {
	m := &MockParticipantRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockParticipantRepository) FindByID(ctx context.Context, participantID string) (*entity.Participant, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) FindAll(ctx context.Context) ([]*entity.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Create(ctx context.Context, participant *entity.Participant) error {
	return m.Called(ctx, participant).Error(0)
}

func (m *MockParticipantRepository) Update(ctx context.Context, participant *entity.Participant) error {
	return m.Called(ctx, participant).Error(0)
}

func (m *MockParticipantRepository) Delete(ctx context.Context, participantID string) error {
	return m.Called(ctx, participantID).Error(0)
}
