package repository

import (
	"context"

	"agentmail/internal/model"
)

// AuditRepository is the append-only document audit log.
type AuditRepository interface {
	// Append inserts one entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error)

	// ListByDocument returns the document's entries in chronological order.
	ListByDocument(ctx context.Context, documentID string) ([]model.AuditEntry, error)
}
