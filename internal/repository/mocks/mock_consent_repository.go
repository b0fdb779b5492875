package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agentmail/internal/model"
)

type MockConsentRepository struct {
	mock.Mock
}

func (m *MockConsentRepository) Create(ctx context.Context, c *model.AgentConsent) (*model.AgentConsent, error) {
	args := m.Called(ctx, c)
	if f, ok := args.Get(0).(func(context.Context, *model.AgentConsent) *model.AgentConsent); ok {
		return f(ctx, c), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentConsent), args.Error(1)
}

func (m *MockConsentRepository) FindByID(ctx context.Context, id string) (*model.AgentConsent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentConsent), args.Error(1)
}

func (m *MockConsentRepository) ListByEntity(ctx context.Context, entityID string) ([]model.AgentConsent, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AgentConsent), args.Error(1)
}
