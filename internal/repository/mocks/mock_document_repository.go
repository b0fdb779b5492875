package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agentmail/internal/model"
	"agentmail/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.ReceivedDocument) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, *model.ReceivedDocument) *model.ReceivedDocument); ok {
		return f(ctx, doc), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListByEntity(ctx context.Context, entityID string) ([]model.ReceivedDocument, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReceivedDocument), args.Error(1)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, upd repository.StatusUpdate) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, upd)
	if f, ok := args.Get(0).(func(context.Context, repository.StatusUpdate) (*model.ReceivedDocument, error)); ok {
		return f(ctx, upd)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}
