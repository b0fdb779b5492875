package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agentmail/internal/model"
)

type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) FindByID(ctx context.Context, id string) (*model.BusinessEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessEntity), args.Error(1)
}

func (m *MockEntityRepository) FindByMailboxAddress(ctx context.Context, address string) (*model.BusinessEntity, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessEntity), args.Error(1)
}

func (m *MockEntityRepository) SetMailboxAddress(ctx context.Context, id string, mb model.MailboxAddress) error {
	args := m.Called(ctx, id, mb)
	return args.Error(0)
}
