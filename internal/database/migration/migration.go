package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agentmail/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last table step; its presence means the schema is complete.
const sentinelTable = "public.document_audit_log"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_registered_agent_addresses",
		SQL: `CREATE TABLE IF NOT EXISTS registered_agent_addresses (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  state          TEXT        NOT NULL UNIQUE,
  street_address TEXT        NOT NULL,
  city           TEXT        NOT NULL,
  zip_code       TEXT        NOT NULL,
  phone_number   TEXT        NOT NULL,
  business_hours TEXT        NOT NULL,
  is_active      BOOLEAN     NOT NULL DEFAULT TRUE,
  verified_date  TIMESTAMPTZ NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_business_entities",
		SQL: `CREATE TABLE IF NOT EXISTS business_entities (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name               TEXT        NOT NULL,
  entity_type        TEXT        NOT NULL,
  state              TEXT        NOT NULL,
  contact_email      TEXT        NOT NULL DEFAULT '',
  mailbox_address    TEXT,
  mailbox_address_id TEXT,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_business_entities_mailbox_address",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_business_entities_mailbox_address ON business_entities (lower(trim(mailbox_address)));`,
	},
	{
		Name: "create_table_registered_agent_consents",
		SQL: `CREATE TABLE IF NOT EXISTS registered_agent_consents (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  business_entity_id UUID        NOT NULL REFERENCES business_entities (id),
  agent_name         TEXT        NOT NULL,
  agent_address_id   UUID        NOT NULL REFERENCES registered_agent_addresses (id),
  consent_method     TEXT        NOT NULL,
  is_active          BOOLEAN     NOT NULL DEFAULT TRUE,
  document_path      TEXT        NOT NULL DEFAULT '',
  consent_date       TIMESTAMPTZ NOT NULL,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_registered_agent_consents_one_active",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS ux_registered_agent_consents_active ON registered_agent_consents (business_entity_id) WHERE is_active;`,
	},
	{
		Name: "create_table_received_documents",
		SQL: `CREATE TABLE IF NOT EXISTS received_documents (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  business_entity_id   UUID        NOT NULL REFERENCES business_entities (id),
  mail_id              TEXT        NOT NULL,
  document_type        TEXT        NOT NULL,
  document_category    TEXT        NOT NULL,
  sender_name          TEXT        NOT NULL,
  sender_address       TEXT,
  document_title       TEXT        NOT NULL,
  document_description TEXT,
  urgency_level        TEXT        NOT NULL CHECK (urgency_level IN ('urgent', 'normal', 'low')),
  digital_document_url TEXT        NOT NULL DEFAULT '',
  handled_by           TEXT        NOT NULL,
  received_date        TIMESTAMPTZ NOT NULL,
  status               TEXT        NOT NULL CHECK (status IN ('received', 'processed', 'forwarded')),
  forwarded_date       TIMESTAMPTZ,
  client_notified_date TIMESTAMPTZ,
  simulated            BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_received_documents_mail_id",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS ux_received_documents_mail_id ON received_documents (mail_id);`,
	},
	{
		Name: "create_index_received_documents_entity_received",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_received_documents_entity_received ON received_documents (business_entity_id, received_date DESC);`,
	},
	{
		Name: "create_table_document_audit_log",
		SQL: `CREATE TABLE IF NOT EXISTS document_audit_log (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  seq          BIGINT      GENERATED ALWAYS AS IDENTITY,
  document_id  UUID        NOT NULL REFERENCES received_documents (id),
  action       TEXT        NOT NULL,
  performed_by TEXT        NOT NULL,
  details      TEXT        NOT NULL DEFAULT '',
  ip_address   TEXT,
  user_agent   TEXT,
  timestamp    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_document_audit_log_document_ts",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_audit_log_document_ts ON document_audit_log (document_id, timestamp, seq);`,
	},
}

// EnsureMigrated checks for the sentinel table and runs all migration steps when it is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	log = logger.OrNop(log).With(zap.String("component", "database"), zap.String("db_host", dbHost))
	start := time.Now()

	log.Info("db_migration_check")

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("msg", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success", zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
