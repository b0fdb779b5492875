package repository

import (
	"context"

	"agentmail/internal/model"
)

// ConsentRepository persists registered-agent consents.
type ConsentRepository interface {
	// Create deactivates any active consent of the same entity and inserts the new one.
	// Run it inside a transaction so the swap is atomic.
	Create(ctx context.Context, c *model.AgentConsent) (*model.AgentConsent, error)

	// FindByID returns a consent by its ID or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.AgentConsent, error)

	// ListByEntity returns the entity's consents, newest first.
	ListByEntity(ctx context.Context, entityID string) ([]model.AgentConsent, error)
}
