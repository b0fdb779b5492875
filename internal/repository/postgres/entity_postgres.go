package postgres

import (
	"context"
	"database/sql"

	"agentmail/internal/database"
	"agentmail/internal/model"
	"agentmail/internal/repository"
)

const entityColumns = `id, name, entity_type, state, contact_email, mailbox_address, mailbox_address_id, created_at`

// EntityPostgres reads business entities from the host application's table.
type EntityPostgres struct {
	db *sql.DB
}

// NewEntityPostgres creates a new EntityPostgres repository.
func NewEntityPostgres(db *sql.DB) *EntityPostgres {
	return &EntityPostgres{db: db}
}

var _ repository.EntityRepository = (*EntityPostgres)(nil)

// FindByID fetches an entity by ID.
func (r *EntityPostgres) FindByID(ctx context.Context, id string) (*model.BusinessEntity, error) {
	const q = `SELECT ` + entityColumns + ` FROM business_entities WHERE id = $1`
	return scanEntity(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// FindByMailboxAddress resolves the owner of a recipient address. The oldest entity wins
// if the same address was ever configured twice.
func (r *EntityPostgres) FindByMailboxAddress(ctx context.Context, address string) (*model.BusinessEntity, error) {
	const q = `
		SELECT ` + entityColumns + `
		FROM business_entities
		WHERE lower(trim(mailbox_address)) = lower(trim($1))
		ORDER BY created_at ASC
		LIMIT 1
	`
	return scanEntity(database.Conn(ctx, r.db).QueryRowContext(ctx, q, address))
}

// SetMailboxAddress stores the configured mailbox address for the entity.
func (r *EntityPostgres) SetMailboxAddress(ctx context.Context, id string, mb model.MailboxAddress) error {
	const q = `UPDATE business_entities SET mailbox_address = $2, mailbox_address_id = $3 WHERE id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id, mb.PhysicalAddress, mb.AddressID)
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

func scanEntity(row rowScanner) (*model.BusinessEntity, error) {
	var (
		e         model.BusinessEntity
		mailbox   sql.NullString
		mailboxID sql.NullString
	)
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.EntityType,
		&e.State,
		&e.ContactEmail,
		&mailbox,
		&mailboxID,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.MailboxAddress = mailbox.String
	e.MailboxAddressID = mailboxID.String
	return &e, nil
}
