package repository

import (
	"context"
	"errors"
	"time"

	"agentmail/internal/model"
)

// ErrDuplicateMail is returned by Create when a document already exists for the mail id.
var ErrDuplicateMail = errors.New("document already recorded for mail id")

// DocumentRepository defines data access for received documents using SQL queries only.
// No business logic here; transition rules live in the service layer.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row, or ErrDuplicateMail.
	Create(ctx context.Context, doc *model.ReceivedDocument) (*model.ReceivedDocument, error)

	// FindByID returns a document by its ID or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.ReceivedDocument, error)

	// ListByEntity returns every document of the entity, most recently received first.
	ListByEntity(ctx context.Context, entityID string) ([]model.ReceivedDocument, error)

	// UpdateStatus moves the document from one of the allowed statuses to next.
	// It returns sql.ErrNoRows when no row matched the id and allowed statuses.
	UpdateStatus(ctx context.Context, upd StatusUpdate) (*model.ReceivedDocument, error)
}

// StatusUpdate describes a guarded status change.
// ForwardedDate, ClientNotifiedDate and DigitalURL are only written when non-nil.
type StatusUpdate struct {
	ID                 string
	From               []model.DocumentStatus
	To                 model.DocumentStatus
	HandledBy          string
	ForwardedDate      *time.Time
	ClientNotifiedDate *time.Time
	DigitalURL         *string
	UpdatedAt          time.Time
}
