package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentmail/internal/model"
	"agentmail/internal/repository"
)

var documentRowColumns = []string{
	"id", "business_entity_id", "mail_id", "document_type", "document_category", "sender_name", "sender_address",
	"document_title", "document_description", "urgency_level", "digital_document_url", "handled_by", "received_date",
	"status", "forwarded_date", "client_notified_date", "simulated", "created_at", "updated_at",
}

func documentRow(rows *sqlmock.Rows, id string, status model.DocumentStatus, received time.Time) *sqlmock.Rows {
	return rows.AddRow(id, "entity-1", "mail_"+id, "Service of Process", "legal", "Superior Court", nil,
		"Summons and Complaint", nil, "urgent", "https://docs.example.test/"+id+".pdf", "Registered Agent Services LLC",
		received, string(status), nil, nil, false, received, received)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	now := time.Now().UTC()
	desc := "Complaint for breach of contract"
	doc := &model.ReceivedDocument{
		ID:                  "doc-1",
		BusinessEntityID:    "entity-1",
		MailID:              "mail_doc-1",
		DocumentType:        "Service of Process",
		DocumentCategory:    "legal",
		SenderName:          "Superior Court",
		DocumentTitle:       "Summons and Complaint",
		DocumentDescription: &desc,
		UrgencyLevel:        model.UrgencyUrgent,
		DigitalDocumentURL:  "https://docs.example.test/doc-1.pdf",
		HandledBy:           "Registered Agent Services LLC",
		ReceivedDate:        now,
		Status:              model.StatusReceived,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	mock.ExpectQuery("INSERT INTO received_documents").
		WithArgs(doc.ID, doc.BusinessEntityID, doc.MailID, doc.DocumentType, doc.DocumentCategory,
			doc.SenderName, sqlmock.AnyArg(), doc.DocumentTitle, sqlmock.AnyArg(), "urgent",
			doc.DigitalDocumentURL, doc.HandledBy, doc.ReceivedDate, "received",
			sqlmock.AnyArg(), sqlmock.AnyArg(), false, doc.CreatedAt, doc.UpdatedAt).
		WillReturnRows(documentRow(sqlmock.NewRows(documentRowColumns), "doc-1", model.StatusReceived, now))

	got, err := repo.Create(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, model.UrgencyUrgent, got.UrgencyLevel)
	assert.Equal(t, model.StatusReceived, got.Status)
	assert.Nil(t, got.SenderAddress)
	assert.Nil(t, got.ForwardedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Create_DuplicateMail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	now := time.Now().UTC()
	doc := &model.ReceivedDocument{ID: "doc-2", MailID: "mail_1", UrgencyLevel: model.UrgencyNormal, Status: model.StatusReceived, CreatedAt: now, UpdatedAt: now}

	t.Run("mail id already recorded", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO received_documents").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_received_documents_mail_id"})

		got, err := repo.Create(context.Background(), doc)

		assert.ErrorIs(t, err, repository.ErrDuplicateMail)
		assert.ErrorContains(t, err, "mail_1")
		assert.Nil(t, got)
	})

	t.Run("other unique violation passes through", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO received_documents").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "received_documents_pkey"})

		_, err := repo.Create(context.Background(), doc)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrDuplicateMail)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM received_documents WHERE id = ").
			WithArgs("doc-1").
			WillReturnRows(documentRow(sqlmock.NewRows(documentRowColumns), "doc-1", model.StatusProcessed, time.Now()))

		doc, err := repo.FindByID(ctx, "doc-1")

		require.NoError(t, err)
		assert.Equal(t, model.StatusProcessed, doc.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM received_documents WHERE id = ").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListByEntity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	now := time.Now().UTC()

	t.Run("newest first", func(t *testing.T) {
		rows := sqlmock.NewRows(documentRowColumns)
		documentRow(rows, "doc-2", model.StatusReceived, now)
		documentRow(rows, "doc-1", model.StatusForwarded, now.Add(-24*time.Hour))

		mock.ExpectQuery("FROM received_documents WHERE business_entity_id = (.+) ORDER BY received_date DESC").
			WithArgs("entity-1").
			WillReturnRows(rows)

		items, err := repo.ListByEntity(context.Background(), "entity-1")

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "doc-2", items[0].ID)
		assert.Equal(t, "doc-1", items[1].ID)
	})

	t.Run("empty is not nil", func(t *testing.T) {
		mock.ExpectQuery("FROM received_documents WHERE business_entity_id").
			WithArgs("entity-9").
			WillReturnRows(sqlmock.NewRows(documentRowColumns))

		items, err := repo.ListByEntity(context.Background(), "entity-9")

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("guards on allowed source statuses", func(t *testing.T) {
		upd := repository.StatusUpdate{
			ID:                 "doc-1",
			From:               []model.DocumentStatus{model.StatusReceived, model.StatusProcessed},
			To:                 model.StatusForwarded,
			HandledBy:          "Registered Agent Services LLC",
			ForwardedDate:      &now,
			ClientNotifiedDate: &now,
			UpdatedAt:          now,
		}

		mock.ExpectQuery("UPDATE received_documents SET (.+) WHERE id = \\$1 AND status IN \\(\\$8, \\$9\\)").
			WithArgs("doc-1", "forwarded", upd.HandledBy, now, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				"received", "processed").
			WillReturnRows(documentRow(sqlmock.NewRows(documentRowColumns), "doc-1", model.StatusForwarded, now))

		doc, err := repo.UpdateStatus(ctx, upd)

		require.NoError(t, err)
		assert.Equal(t, model.StatusForwarded, doc.Status)
	})

	t.Run("no row in an allowed status", func(t *testing.T) {
		mock.ExpectQuery("UPDATE received_documents").
			WillReturnRows(sqlmock.NewRows(documentRowColumns))

		doc, err := repo.UpdateStatus(ctx, repository.StatusUpdate{
			ID:        "doc-1",
			From:      []model.DocumentStatus{model.StatusReceived},
			To:        model.StatusProcessed,
			UpdatedAt: now,
		})

		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, doc)
	})

	t.Run("rejects empty source set", func(t *testing.T) {
		doc, err := repo.UpdateStatus(ctx, repository.StatusUpdate{ID: "doc-1", To: model.StatusProcessed})

		assert.ErrorContains(t, err, "no source status given")
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
