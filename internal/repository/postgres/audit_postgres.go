package postgres

import (
	"context"
	"database/sql"

	"agentmail/internal/database"
	"agentmail/internal/model"
	"agentmail/internal/repository"
)

const auditColumns = `id, document_id, action, performed_by, details, ip_address, user_agent, timestamp`

// AuditPostgres is the append-only document audit log on PostgreSQL.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Append inserts one audit entry.
func (r *AuditPostgres) Append(ctx context.Context, e *model.AuditEntry) (*model.AuditEntry, error) {
	const q = `
		INSERT INTO document_audit_log (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + auditColumns
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		e.ID,
		e.DocumentID,
		e.Action,
		e.PerformedBy,
		e.Details,
		e.IPAddress,
		e.UserAgent,
		e.Timestamp,
	)
	return scanAudit(row)
}

// ListByDocument returns entries by timestamp ascending; seq breaks ties between
// entries written in the same instant.
func (r *AuditPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	const q = `
		SELECT ` + auditColumns + `
		FROM document_audit_log
		WHERE document_id = $1
		ORDER BY timestamp ASC, seq ASC
	`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditEntry, 0)
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanAudit(row rowScanner) (*model.AuditEntry, error) {
	var e model.AuditEntry
	if err := row.Scan(
		&e.ID,
		&e.DocumentID,
		&e.Action,
		&e.PerformedBy,
		&e.Details,
		&e.IPAddress,
		&e.UserAgent,
		&e.Timestamp,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
