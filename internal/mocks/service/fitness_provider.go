// Package service contains hand-written testify doubles for the domain
// service interfaces.
package service

import (
	"context"
	"testing"

	"fitsync/internal/domain/entity"
	domainservice "fitsync/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockFitnessProvider is a testify double for service.FitnessProvider.
type MockFitnessProvider struct {
	mock.Mock
}

// NewMockFitnessProvider creates the mock and asserts its expectations on cleanup.
func NewMockFitnessProvider(t *testing.T) *MockFitnessProvider {
	m := &MockFitnessProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFitnessProvider) AuthorizeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockFitnessProvider) ExchangeCode(ctx context.Context, code string) (*domainservice.TokenSet, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domainservice.TokenSet), args.Error(1)
}

func (m *MockFitnessProvider) NewSession(token domainservice.TokenSet, onRefresh domainservice.RefreshFunc) domainservice.ProviderSession {
	args := m.Called(token, onRefresh)

	return args.Get(0).(domainservice.ProviderSession)
}

// MockProviderSession is a testify double for service.ProviderSession.
type MockProviderSession struct {
	mock.Mock
}

// NewMockProviderSession creates the mock and asserts its expectations on cleanup.
func NewMockProviderSession(t *testing.T) *MockProviderSession {
	m := &MockProviderSession{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProviderSession) FetchDailySummary(ctx context.Context, resource entity.Resource, date string) ([]byte, error) {
	args := m.Called(ctx, resource, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProviderSession) FetchIntraday(ctx context.Context, resource entity.Resource, date string, granularity entity.Granularity) ([]byte, error) {
	args := m.Called(ctx, resource, date, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProviderSession) FetchSleep(ctx context.Context, date string) ([]byte, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProviderSession) FetchWeight(ctx context.Context, date string) ([]byte, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProviderSession) FetchProfile(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProviderSession) RateLimit() *entity.RateLimitInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*entity.RateLimitInfo)
}
