package repository

import (
	"context"

	"agentmail/internal/model"
)

// AddressRepository persists registered-agent addresses keyed by full state name.
type AddressRepository interface {
	// FindByState returns the address for the state or sql.ErrNoRows.
	FindByState(ctx context.Context, state string) (*model.AgentAddress, error)

	// InsertIfAbsent inserts the address unless a row for the same state already exists.
	// It reports whether this call created the row.
	InsertIfAbsent(ctx context.Context, addr *model.AgentAddress) (bool, error)

	// SetActive flips the is_active flag for the state's address. Returns sql.ErrNoRows if absent.
	SetActive(ctx context.Context, state string, active bool) error
}
