package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"agentmail/internal/database"
	"agentmail/internal/model"
	"agentmail/internal/repository"
)

const consentColumns = `id, business_entity_id, agent_name, agent_address_id, consent_method, is_active, document_path, consent_date, created_at`

// ConsentPostgres is a PostgreSQL implementation of repository.ConsentRepository.
type ConsentPostgres struct {
	db *sql.DB
}

// NewConsentPostgres creates a new ConsentPostgres repository.
func NewConsentPostgres(db *sql.DB) *ConsentPostgres {
	return &ConsentPostgres{db: db}
}

var _ repository.ConsentRepository = (*ConsentPostgres)(nil)

// Create supersedes the entity's active consent and inserts c.
func (r *ConsentPostgres) Create(ctx context.Context, c *model.AgentConsent) (*model.AgentConsent, error) {
	conn := database.Conn(ctx, r.db)

	const qDeactivate = `
		UPDATE registered_agent_consents
		SET is_active = FALSE
		WHERE business_entity_id = $1 AND is_active
	`
	if _, err := conn.ExecContext(ctx, qDeactivate, c.BusinessEntityID); err != nil {
		return nil, fmt.Errorf("deactivate previous consent: %w", err)
	}

	const qInsert = `
		INSERT INTO registered_agent_consents (` + consentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + consentColumns
	row := conn.QueryRowContext(ctx, qInsert,
		c.ID,
		c.BusinessEntityID,
		c.AgentName,
		c.AgentAddressID,
		c.ConsentMethod,
		c.IsActive,
		c.DocumentPath,
		c.ConsentDate,
		c.CreatedAt,
	)
	return scanConsent(row)
}

// FindByID fetches a single consent by its ID.
func (r *ConsentPostgres) FindByID(ctx context.Context, id string) (*model.AgentConsent, error) {
	const q = `SELECT ` + consentColumns + ` FROM registered_agent_consents WHERE id = $1`
	return scanConsent(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// ListByEntity returns the entity's consents, newest first.
func (r *ConsentPostgres) ListByEntity(ctx context.Context, entityID string) ([]model.AgentConsent, error) {
	const q = `
		SELECT ` + consentColumns + `
		FROM registered_agent_consents
		WHERE business_entity_id = $1
		ORDER BY consent_date DESC, id DESC
	`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AgentConsent, 0)
	for rows.Next() {
		c, err := scanConsent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanConsent(row rowScanner) (*model.AgentConsent, error) {
	var c model.AgentConsent
	if err := row.Scan(
		&c.ID,
		&c.BusinessEntityID,
		&c.AgentName,
		&c.AgentAddressID,
		&c.ConsentMethod,
		&c.IsActive,
		&c.DocumentPath,
		&c.ConsentDate,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
