package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"agentmail/internal/database"
	"agentmail/internal/logger"
	"agentmail/internal/model"
	"agentmail/internal/repository"
	"agentmail/internal/requestmeta"
)

// DocumentService handles received documents after intake.
type DocumentService interface {
	Get(ctx context.Context, id string) (*model.ReceivedDocument, error)

	// ListForEntity returns the entity's documents, most recently received first.
	ListForEntity(ctx context.Context, entityID string) ([]model.ReceivedDocument, error)

	// Process moves a received document to processed.
	Process(ctx context.Context, id, handledBy string) (*model.ReceivedDocument, error)

	// Forward moves a received or processed document to forwarded and stamps the
	// forwarded and client-notified dates. digitalURL replaces the stored URL when non-nil.
	Forward(ctx context.Context, id, handledBy string, digitalURL *string) (*model.ReceivedDocument, error)

	// AuditTrail returns the document's audit entries in chronological order.
	AuditTrail(ctx context.Context, documentID string) ([]model.AuditEntry, error)
}

type documentService struct {
	entities  repository.EntityRepository
	documents repository.DocumentRepository
	audits    repository.AuditRepository
	tx        database.Transactor
	agentName string
	log       *zap.Logger
	now       func() time.Time
}

// NewDocumentService constructs a DocumentService. agentName is recorded as the handler when
// a transition does not name one.
func NewDocumentService(
	entities repository.EntityRepository,
	documents repository.DocumentRepository,
	audits repository.AuditRepository,
	tx database.Transactor,
	agentName string,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		entities:  entities,
		documents: documents,
		audits:    audits,
		tx:        tx,
		agentName: agentName,
		log:       logger.OrNop(log).With(zap.String("component", "document")),
		now:       time.Now,
	}
}

func (s *documentService) Get(ctx context.Context, id string) (*model.ReceivedDocument, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListForEntity(ctx context.Context, entityID string) ([]model.ReceivedDocument, error) {
	if entityID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.entities.FindByID(ctx, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("find entity: %w", err)
	}
	return s.documents.ListByEntity(ctx, entityID)
}

func (s *documentService) Process(ctx context.Context, id, handledBy string) (*model.ReceivedDocument, error) {
	handledBy = s.handler(handledBy)
	return s.transition(ctx, id, model.StatusProcessed, func(now time.Time) (repository.StatusUpdate, string) {
		return repository.StatusUpdate{HandledBy: handledBy},
			fmt.Sprintf("Document processed by %s", handledBy)
	})
}

func (s *documentService) Forward(ctx context.Context, id, handledBy string, digitalURL *string) (*model.ReceivedDocument, error) {
	handledBy = s.handler(handledBy)
	if digitalURL != nil && *digitalURL == "" {
		digitalURL = nil
	}
	return s.transition(ctx, id, model.StatusForwarded, func(now time.Time) (repository.StatusUpdate, string) {
		details := fmt.Sprintf("Document forwarded to client by %s", handledBy)
		if digitalURL != nil {
			details += fmt.Sprintf(" (digital copy: %s)", *digitalURL)
		}
		return repository.StatusUpdate{
			HandledBy:          handledBy,
			ForwardedDate:      &now,
			ClientNotifiedDate: &now,
			DigitalURL:         digitalURL,
		}, details
	})
}

// transition applies a guarded status change and appends its audit entry in one transaction.
func (s *documentService) transition(
	ctx context.Context,
	id string,
	to model.DocumentStatus,
	build func(now time.Time) (repository.StatusUpdate, string),
) (*model.ReceivedDocument, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.transition", trace.WithAttributes(
		attribute.String("document.id", id),
		attribute.String("document.status", string(to)),
	))
	defer span.End()

	if id == "" {
		return nil, ErrIDRequired
	}

	var updated *model.ReceivedDocument
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.documents.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("find document: %w", err)
		}
		if !current.Status.CanTransitionTo(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
		}

		now := s.now().UTC()
		upd, details := build(now)
		upd.ID = id
		upd.From = []model.DocumentStatus{current.Status}
		upd.To = to
		upd.UpdatedAt = now

		updated, err = s.documents.UpdateStatus(ctx, upd)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Lost a race with another transition of the same document.
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
			}
			return fmt.Errorf("update document status: %w", err)
		}

		_, err = s.audits.Append(ctx, &model.AuditEntry{
			ID:          uuid.NewString(),
			DocumentID:  id,
			Action:      string(to),
			PerformedBy: upd.HandledBy,
			Details:     details,
			IPAddress:   requestmeta.ClientIPPtr(ctx),
			UserAgent:   requestmeta.UserAgentPtr(ctx),
			Timestamp:   now,
		})
		if err != nil {
			return fmt.Errorf("append audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("document status changed",
		zap.String("document_id", id),
		zap.String("status", string(updated.Status)),
		zap.String("handled_by", updated.HandledBy),
	)
	return updated, nil
}

func (s *documentService) AuditTrail(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.documents.FindByID(ctx, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return s.audits.ListByDocument(ctx, documentID)
}

func (s *documentService) handler(handledBy string) string {
	if handledBy == "" {
		return s.agentName
	}
	return handledBy
}
