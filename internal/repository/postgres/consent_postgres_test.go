package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentmail/internal/database"
	"agentmail/internal/model"
)

var consentRowColumns = []string{
	"id", "business_entity_id", "agent_name", "agent_address_id", "consent_method",
	"is_active", "document_path", "consent_date", "created_at",
}

func TestConsentPostgres_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	c := &model.AgentConsent{
		ID:               "consent-2",
		BusinessEntityID: "entity-1",
		AgentName:        "Registered Agent Services LLC",
		AgentAddressID:   "addr-1",
		ConsentMethod:    model.ConsentMethodElectronic,
		IsActive:         true,
		DocumentPath:     "consents/entity-1/consent-2.txt",
		ConsentDate:      now,
		CreatedAt:        now,
	}

	t.Run("deactivates previous then inserts in one tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE registered_agent_consents SET is_active = FALSE").
			WithArgs("entity-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO registered_agent_consents").
			WithArgs(c.ID, c.BusinessEntityID, c.AgentName, c.AgentAddressID, c.ConsentMethod,
				c.IsActive, c.DocumentPath, c.ConsentDate, c.CreatedAt).
			WillReturnRows(sqlmock.NewRows(consentRowColumns).
				AddRow(c.ID, c.BusinessEntityID, c.AgentName, c.AgentAddressID, c.ConsentMethod,
					c.IsActive, c.DocumentPath, c.ConsentDate, c.CreatedAt))
		mock.ExpectCommit()

		repo := NewConsentPostgres(db)
		var got *model.AgentConsent
		err = database.NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
			var err error
			got, err = repo.Create(ctx, c)
			return err
		})

		require.NoError(t, err)
		assert.Equal(t, "consent-2", got.ID)
		assert.True(t, got.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deactivate failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE registered_agent_consents").
			WillReturnError(errors.New("lock timeout"))

		got, err := NewConsentPostgres(db).Create(ctx, c)

		assert.ErrorContains(t, err, "deactivate previous consent: lock timeout")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConsentPostgres_ListByEntity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(consentRowColumns).
		AddRow("consent-2", "entity-1", "Agent", "addr-1", "electronic", true, "", now, now).
		AddRow("consent-1", "entity-1", "Agent", "addr-1", "electronic", false, "", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM registered_agent_consents WHERE business_entity_id = (.+) ORDER BY consent_date DESC").
		WithArgs("entity-1").
		WillReturnRows(rows)

	items, err := NewConsentPostgres(db).ListByEntity(context.Background(), "entity-1")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "consent-2", items[0].ID)
	assert.False(t, items[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM registered_agent_consents WHERE id = ").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(consentRowColumns))

	got, err := NewConsentPostgres(db).FindByID(context.Background(), "missing")

	assert.True(t, IsNoRowsError(err))
	assert.Nil(t, got)
}
