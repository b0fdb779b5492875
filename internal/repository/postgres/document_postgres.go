package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"agentmail/internal/database"
	"agentmail/internal/model"
	"agentmail/internal/repository"
)

const documentColumns = `id, business_entity_id, mail_id, document_type, document_category, sender_name, sender_address,
	document_title, document_description, urgency_level, digital_document_url, handled_by, received_date,
	status, forwarded_date, client_notified_date, simulated, created_at, updated_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.ReceivedDocument) (*model.ReceivedDocument, error) {
	const q = `
		INSERT INTO received_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + documentColumns
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		doc.ID,
		doc.BusinessEntityID,
		doc.MailID,
		doc.DocumentType,
		doc.DocumentCategory,
		doc.SenderName,
		doc.SenderAddress,
		doc.DocumentTitle,
		doc.DocumentDescription,
		string(doc.UrgencyLevel),
		doc.DigitalDocumentURL,
		doc.HandledBy,
		doc.ReceivedDate,
		string(doc.Status),
		doc.ForwardedDate,
		doc.ClientNotifiedDate,
		doc.Simulated,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	stored, err := scanDocument(row)
	if err != nil {
		if isUniqueViolation(err, mailIDConstraint) {
			return nil, fmt.Errorf("%w: %s", repository.ErrDuplicateMail, doc.MailID)
		}
		return nil, err
	}
	return stored, nil
}

const (
	mailIDConstraint   = "ux_received_documents_mail_id"
	uniqueViolationSQL = "23505"
)

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL && pgErr.ConstraintName == constraint
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.ReceivedDocument, error) {
	const q = `SELECT ` + documentColumns + ` FROM received_documents WHERE id = $1`
	return scanDocument(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// ListByEntity returns the entity's documents, most recently received first.
func (r *DocumentPostgres) ListByEntity(ctx context.Context, entityID string) ([]model.ReceivedDocument, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM received_documents
		WHERE business_entity_id = $1
		ORDER BY received_date DESC, id DESC
	`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ReceivedDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus applies a guarded status change. The WHERE clause only matches rows whose
// current status is listed in upd.From, so concurrent transitions cannot move a document backwards.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, upd repository.StatusUpdate) (*model.ReceivedDocument, error) {
	if len(upd.From) == 0 {
		return nil, fmt.Errorf("status update for %s: no source status given", upd.ID)
	}

	args := []any{
		upd.ID,
		string(upd.To),
		upd.HandledBy,
		upd.UpdatedAt,
		upd.ForwardedDate,
		upd.ClientNotifiedDate,
		upd.DigitalURL,
	}
	placeholders := make([]string, 0, len(upd.From))
	for _, s := range upd.From {
		args = append(args, string(s))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	q := `
		UPDATE received_documents
		SET status = $2,
			handled_by = $3,
			updated_at = $4,
			forwarded_date = COALESCE($5, forwarded_date),
			client_notified_date = COALESCE($6, client_notified_date),
			digital_document_url = COALESCE($7, digital_document_url)
		WHERE id = $1 AND status IN (` + strings.Join(placeholders, ", ") + `)
		RETURNING ` + documentColumns

	return scanDocument(database.Conn(ctx, r.db).QueryRowContext(ctx, q, args...))
}

func scanDocument(row rowScanner) (*model.ReceivedDocument, error) {
	var (
		d       model.ReceivedDocument
		urgency string
		status  string
	)
	if err := row.Scan(
		&d.ID,
		&d.BusinessEntityID,
		&d.MailID,
		&d.DocumentType,
		&d.DocumentCategory,
		&d.SenderName,
		&d.SenderAddress,
		&d.DocumentTitle,
		&d.DocumentDescription,
		&urgency,
		&d.DigitalDocumentURL,
		&d.HandledBy,
		&d.ReceivedDate,
		&status,
		&d.ForwardedDate,
		&d.ClientNotifiedDate,
		&d.Simulated,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.UrgencyLevel = model.UrgencyLevel(urgency)
	d.Status = model.DocumentStatus(status)
	return &d, nil
}
