package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agentmail/internal/model"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, e *model.AuditEntry) (*model.AuditEntry, error) {
	args := m.Called(ctx, e)
	if f, ok := args.Get(0).(func(context.Context, *model.AuditEntry) *model.AuditEntry); ok {
		return f(ctx, e), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) ListByDocument(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}
