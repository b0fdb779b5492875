package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"agentmail/internal/model"
	"agentmail/internal/service"
	"agentmail/internal/storage"
)

type MockAddressRegistry struct {
	mock.Mock
}

func (m *MockAddressRegistry) GetOrCreate(ctx context.Context, state string) (*model.AgentAddress, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentAddress), args.Error(1)
}

func (m *MockAddressRegistry) SetActive(ctx context.Context, state string, active bool) (*model.AgentAddress, error) {
	args := m.Called(ctx, state, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentAddress), args.Error(1)
}

type MockConsentService struct {
	mock.Mock
}

func (m *MockConsentService) CreateConsent(ctx context.Context, entityID, state string) (*model.AgentConsent, error) {
	args := m.Called(ctx, entityID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentConsent), args.Error(1)
}

func (m *MockConsentService) ListConsents(ctx context.Context, entityID string) ([]model.AgentConsent, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AgentConsent), args.Error(1)
}

func (m *MockConsentService) ConsentDocument(ctx context.Context, consentID string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

type MockMailIntake struct {
	mock.Mock
}

func (m *MockMailIntake) ProcessMail(ctx context.Context, n model.MailNotification) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}

func (m *MockMailIntake) HandleMailNotification(ctx context.Context, w model.MailWebhook) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}

func (m *MockDocumentService) ListForEntity(ctx context.Context, entityID string) ([]model.ReceivedDocument, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReceivedDocument), args.Error(1)
}

func (m *MockDocumentService) Process(ctx context.Context, id, handledBy string) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, id, handledBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}

func (m *MockDocumentService) Forward(ctx context.Context, id, handledBy string, digitalURL *string) (*model.ReceivedDocument, error) {
	args := m.Called(ctx, id, handledBy, digitalURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceivedDocument), args.Error(1)
}

func (m *MockDocumentService) AuditTrail(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

type MockAgentActivation struct {
	mock.Mock
}

func (m *MockAgentActivation) Activate(ctx context.Context, entityID string) (*service.ActivationResult, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActivationResult), args.Error(1)
}

var (
	_ service.AddressRegistry = (*MockAddressRegistry)(nil)
	_ service.ConsentService  = (*MockConsentService)(nil)
	_ service.MailIntake      = (*MockMailIntake)(nil)
	_ service.DocumentService = (*MockDocumentService)(nil)
	_ service.AgentActivation = (*MockAgentActivation)(nil)
)
