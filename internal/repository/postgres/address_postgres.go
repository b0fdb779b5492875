package postgres

import (
	"context"
	"database/sql"

	"agentmail/internal/database"
	"agentmail/internal/model"
	"agentmail/internal/repository"
)

const addressColumns = `id, state, street_address, city, zip_code, phone_number, business_hours, is_active, verified_date, created_at, updated_at`

// AddressPostgres is a PostgreSQL implementation of repository.AddressRepository.
// The UNIQUE constraint on state makes InsertIfAbsent safe under concurrent first requests.
type AddressPostgres struct {
	db *sql.DB
}

// NewAddressPostgres creates a new AddressPostgres repository.
func NewAddressPostgres(db *sql.DB) *AddressPostgres {
	return &AddressPostgres{db: db}
}

var _ repository.AddressRepository = (*AddressPostgres)(nil)

// FindByState fetches the address for a full state name.
func (r *AddressPostgres) FindByState(ctx context.Context, state string) (*model.AgentAddress, error) {
	const q = `SELECT ` + addressColumns + ` FROM registered_agent_addresses WHERE state = $1`
	return scanAddress(database.Conn(ctx, r.db).QueryRowContext(ctx, q, state))
}

// InsertIfAbsent inserts the address, leaving an existing row for the same state untouched.
func (r *AddressPostgres) InsertIfAbsent(ctx context.Context, a *model.AgentAddress) (bool, error) {
	const q = `
		INSERT INTO registered_agent_addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (state) DO NOTHING
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q,
		a.ID,
		a.State,
		a.StreetAddress,
		a.City,
		a.ZipCode,
		a.PhoneNumber,
		a.BusinessHours,
		a.IsActive,
		a.VerifiedDate,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetActive updates the is_active flag of a state's address.
func (r *AddressPostgres) SetActive(ctx context.Context, state string, active bool) error {
	const q = `UPDATE registered_agent_addresses SET is_active = $2, updated_at = now() WHERE state = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, state, active)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanAddress(row rowScanner) (*model.AgentAddress, error) {
	var a model.AgentAddress
	if err := row.Scan(
		&a.ID,
		&a.State,
		&a.StreetAddress,
		&a.City,
		&a.ZipCode,
		&a.PhoneNumber,
		&a.BusinessHours,
		&a.IsActive,
		&a.VerifiedDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
