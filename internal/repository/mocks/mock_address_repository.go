package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agentmail/internal/model"
)

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByState(ctx context.Context, state string) (*model.AgentAddress, error) {
	args := m.Called(ctx, state)
	if f, ok := args.Get(0).(func(context.Context, string) (*model.AgentAddress, error)); ok {
		return f(ctx, state)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentAddress), args.Error(1)
}

func (m *MockAddressRepository) InsertIfAbsent(ctx context.Context, addr *model.AgentAddress) (bool, error) {
	args := m.Called(ctx, addr)
	return args.Bool(0), args.Error(1)
}

func (m *MockAddressRepository) SetActive(ctx context.Context, state string, active bool) error {
	args := m.Called(ctx, state, active)
	return args.Error(0)
}
