package repository

import (
	"context"

	"agentmail/internal/model"
)

// EntityRepository reads business entities owned by the host application.
type EntityRepository interface {
	// FindByID returns the entity or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.BusinessEntity, error)

	// FindByMailboxAddress matches the recipient address of inbound mail (case and
	// surrounding whitespace insensitive). Returns sql.ErrNoRows when nothing matches.
	FindByMailboxAddress(ctx context.Context, address string) (*model.BusinessEntity, error)

	// SetMailboxAddress records the virtual mailbox configured for the entity.
	SetMailboxAddress(ctx context.Context, id string, mb model.MailboxAddress) error
}
