package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"agentmail/internal/classifier"
	"agentmail/internal/database"
	"agentmail/internal/logger"
	"agentmail/internal/metrics"
	"agentmail/internal/model"
	"agentmail/internal/notify"
	"agentmail/internal/repository"
	"agentmail/internal/requestmeta"
)

const (
	unknownDocument = "Unknown Document"
	unknownSender   = "Unknown Sender"

	// performedBySystem marks audit entries written by the pipeline itself.
	performedBySystem = "mail_intake"
)

// Scanner requests a scan of a physical mail item.
type Scanner interface {
	RequestScan(ctx context.Context, mailID string) (*model.MailScanResult, error)
}

// OCRProvider extracts normalized fields from a scanned document.
type OCRProvider interface {
	Extract(ctx context.Context, documentURL string) (model.ExtractedFields, error)
}

// DeliveryGuard deduplicates concurrent webhook deliveries by mail id. A claim is short-lived
// until Confirm records the mail as processed; the database stays the authority on duplicates.
type DeliveryGuard interface {
	Claim(ctx context.Context, mailID string) (bool, error)
	Confirm(ctx context.Context, mailID string) error
	Release(ctx context.Context, mailID string) error
}

// MailIntake turns mail notifications into persisted, classified documents.
type MailIntake interface {
	// ProcessMail runs the full pipeline for one notification. It returns ErrEntityNotFound,
	// and writes nothing, when no business entity owns the recipient address.
	ProcessMail(ctx context.Context, n model.MailNotification) (*model.ReceivedDocument, error)

	// HandleMailNotification maps a provider webhook to a notification and processes it once.
	HandleMailNotification(ctx context.Context, w model.MailWebhook) (*model.ReceivedDocument, error)
}

const defaultNotifyTimeout = 5 * time.Second

// IntakeDeps are the collaborators of the intake pipeline. Guard and Metrics are optional.
// NotifyTimeout bounds the client notification; zero means five seconds.
type IntakeDeps struct {
	Entities  repository.EntityRepository
	Documents repository.DocumentRepository
	Audits    repository.AuditRepository
	Tx        database.Transactor
	Scanner   Scanner
	OCR       OCRProvider
	Notifier  notify.Notifier
	Guard     DeliveryGuard
	Metrics   *metrics.IntakeMetrics
	AgentName     string
	NotifyTimeout time.Duration
	Logger        *zap.Logger
}

type mailIntake struct {
	IntakeDeps
	log *zap.Logger
	now func() time.Time
}

// NewMailIntake constructs the intake pipeline.
func NewMailIntake(deps IntakeDeps) MailIntake {
	return &mailIntake{
		IntakeDeps: deps,
		log:        logger.OrNop(deps.Logger).With(zap.String("component", "mail_intake")),
		now:        time.Now,
	}
}

type mailProcessedDetails struct {
	MailID        string                `json:"mail_id"`
	ScanID        string                `json:"scan_id"`
	TrackingNo    string                `json:"tracking_number,omitempty"`
	ExtractedData model.ExtractedFields `json:"extracted_data"`
	ProcessedAt   time.Time             `json:"processed_at"`
	Simulated     bool                  `json:"simulated"`
}

func (m *mailIntake) ProcessMail(ctx context.Context, n model.MailNotification) (*model.ReceivedDocument, error) {
	start := m.now()
	ctx, span := tracer.Start(ctx, "MailIntake.ProcessMail", trace.WithAttributes(attribute.String("mail.id", n.MailID)))
	defer span.End()

	doc, err := m.processMail(ctx, n)
	switch {
	case err == nil:
		m.Metrics.ObserveIntake(metrics.OutcomeProcessed, m.now().Sub(start))
	case errors.Is(err, ErrEntityNotFound):
		m.Metrics.ObserveIntake(metrics.OutcomeNoEntity, m.now().Sub(start))
	case errors.Is(err, ErrDuplicateDelivery):
		m.Metrics.ObserveIntake(metrics.OutcomeDuplicate, m.now().Sub(start))
	default:
		m.Metrics.ObserveIntake(metrics.OutcomeError, m.now().Sub(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return doc, err
}

func (m *mailIntake) processMail(ctx context.Context, n model.MailNotification) (*model.ReceivedDocument, error) {
	if strings.TrimSpace(n.MailID) == "" {
		return nil, ErrMailIDRequired
	}
	log := m.log.With(zap.String("mail_id", n.MailID))
	if rid := requestmeta.RequestID(ctx); rid != "" {
		log = log.With(zap.String("request_id", rid))
	}

	entity, err := m.resolveEntity(ctx, n.RecipientAddress)
	if err != nil {
		if errors.Is(err, ErrEntityNotFound) {
			log.Warn("no business entity for recipient address, mail dropped",
				zap.String("recipient_address", n.RecipientAddress))
		}
		return nil, err
	}

	scan, err := m.scan(ctx, n.MailID)
	if err != nil {
		return nil, err
	}

	extracted, err := m.extract(ctx, scan.DocumentURL)
	if err != nil {
		return nil, err
	}

	title := firstNonEmpty(extracted.DocumentTitle, n.SenderName, unknownDocument)
	sender := firstNonEmpty(n.SenderName, unknownSender)
	cls := classifier.Categorize(title, sender)
	urgency := model.MaxUrgency(declaredUrgency(n, scan.OCRText, title), cls.UrgencyLevel)

	now := m.now().UTC()
	received := n.ReceivedDate
	if received.IsZero() {
		received = now
	}
	doc := &model.ReceivedDocument{
		ID:                  uuid.NewString(),
		BusinessEntityID:    entity.ID,
		MailID:              n.MailID,
		DocumentType:        cls.Type,
		DocumentCategory:    cls.Category,
		SenderName:          senderName(n, extracted),
		SenderAddress:       senderAddress(extracted),
		DocumentTitle:       title,
		DocumentDescription: optional(extracted.DocumentSummary),
		UrgencyLevel:        urgency,
		DigitalDocumentURL:  scan.DocumentURL,
		HandledBy:           m.AgentName,
		ReceivedDate:        received,
		Status:              model.StatusReceived,
		Simulated:           scan.Simulated || extracted.Simulated,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	stored, err := m.persist(ctx, doc, n, scan, extracted)
	if err != nil {
		if errors.Is(err, ErrDuplicateDelivery) {
			log.Info("mail already recorded, redelivery ignored")
		}
		return nil, err
	}

	log.Info("mail processed",
		zap.String("document_id", stored.ID),
		zap.String("entity_id", entity.ID),
		zap.String("document_type", stored.DocumentType),
		zap.String("urgency_level", string(stored.UrgencyLevel)),
		zap.Bool("simulated", stored.Simulated),
	)

	m.notifyClient(ctx, entity, stored, scan)
	return stored, nil
}

func (m *mailIntake) resolveEntity(ctx context.Context, recipient string) (*model.BusinessEntity, error) {
	ctx, span := tracer.Start(ctx, "MailIntake.resolveEntity")
	defer span.End()

	if strings.TrimSpace(recipient) == "" {
		return nil, ErrEntityNotFound
	}
	entity, err := m.Entities.FindByMailboxAddress(ctx, recipient)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("resolve entity: %w", err)
	}
	return entity, nil
}

func (m *mailIntake) scan(ctx context.Context, mailID string) (*model.MailScanResult, error) {
	ctx, span := tracer.Start(ctx, "MailIntake.scan")
	defer span.End()

	scan, err := m.Scanner.RequestScan(ctx, mailID)
	if err != nil {
		return nil, fmt.Errorf("request scan: %w", err)
	}
	if scan == nil {
		return nil, ErrNoScanResult
	}
	span.SetAttributes(attribute.Bool("scan.simulated", scan.Simulated))
	if scan.Simulated {
		m.Metrics.IncFallback(metrics.ProviderScan)
	}
	return scan, nil
}

func (m *mailIntake) extract(ctx context.Context, documentURL string) (model.ExtractedFields, error) {
	ctx, span := tracer.Start(ctx, "MailIntake.extract")
	defer span.End()

	fields, err := m.OCR.Extract(ctx, documentURL)
	if err != nil {
		return model.ExtractedFields{}, fmt.Errorf("extract data: %w", err)
	}
	span.SetAttributes(attribute.Bool("ocr.simulated", fields.Simulated))
	if fields.Simulated {
		m.Metrics.IncFallback(metrics.ProviderOCR)
	}
	return fields, nil
}

// persist writes the document and both intake audit entries in one transaction.
func (m *mailIntake) persist(ctx context.Context, doc *model.ReceivedDocument, n model.MailNotification, scan *model.MailScanResult, extracted model.ExtractedFields) (*model.ReceivedDocument, error) {
	ctx, span := tracer.Start(ctx, "MailIntake.persist")
	defer span.End()

	var stored *model.ReceivedDocument
	err := m.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = m.Documents.Create(ctx, doc)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateMail) {
				return ErrDuplicateDelivery
			}
			return fmt.Errorf("create document: %w", err)
		}

		receivedAt := doc.CreatedAt
		if _, err := m.Audits.Append(ctx, &model.AuditEntry{
			ID:          uuid.NewString(),
			DocumentID:  stored.ID,
			Action:      model.AuditActionReceived,
			PerformedBy: m.AgentName,
			Details:     fmt.Sprintf("Document received: %s from %s", stored.DocumentTitle, stored.SenderName),
			IPAddress:   requestmeta.ClientIPPtr(ctx),
			UserAgent:   requestmeta.UserAgentPtr(ctx),
			Timestamp:   receivedAt,
		}); err != nil {
			return fmt.Errorf("append received audit: %w", err)
		}

		processedAt := m.now().UTC()
		if processedAt.Before(receivedAt) {
			processedAt = receivedAt
		}
		details, err := json.Marshal(mailProcessedDetails{
			MailID:        n.MailID,
			ScanID:        scan.ScanID,
			TrackingNo:    n.TrackingNumber,
			ExtractedData: extracted,
			ProcessedAt:   processedAt,
			Simulated:     stored.Simulated,
		})
		if err != nil {
			return fmt.Errorf("marshal mail_processed details: %w", err)
		}
		if _, err := m.Audits.Append(ctx, &model.AuditEntry{
			ID:          uuid.NewString(),
			DocumentID:  stored.ID,
			Action:      model.AuditActionMailProcessed,
			PerformedBy: performedBySystem,
			Details:     string(details),
			IPAddress:   requestmeta.ClientIPPtr(ctx),
			UserAgent:   requestmeta.UserAgentPtr(ctx),
			Timestamp:   processedAt,
		}); err != nil {
			return fmt.Errorf("append mail_processed audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (m *mailIntake) notifyClient(ctx context.Context, entity *model.BusinessEntity, doc *model.ReceivedDocument, scan *model.MailScanResult) {
	if m.Notifier == nil {
		return
	}
	timeout := m.NotifyTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	// The document is committed; a caller that goes away must not cut the notification short.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "MailIntake.notifyClient")
	defer span.End()

	if err := m.Notifier.DocumentReceived(ctx, entity, doc, scan); err != nil {
		span.RecordError(err)
		m.log.Error("client notification failed",
			zap.String("document_id", doc.ID),
			zap.String("entity_id", entity.ID),
			zap.Error(err),
		)
	}
}

func (m *mailIntake) HandleMailNotification(ctx context.Context, w model.MailWebhook) (*model.ReceivedDocument, error) {
	if strings.TrimSpace(w.MailID) == "" {
		return nil, ErrMailIDRequired
	}
	n := NotificationFromWebhook(w, m.now())

	claimed := false
	if m.Guard != nil {
		ok, err := m.Guard.Claim(ctx, n.MailID)
		switch {
		case err != nil:
			// Intake stays available when the guard is down; the mail_id index still rejects duplicates.
			m.log.Warn("delivery guard unavailable, processing without dedupe", zap.String("mail_id", n.MailID), zap.Error(err))
		case !ok:
			m.Metrics.ObserveIntake(metrics.OutcomeDuplicate, 0)
			m.log.Info("duplicate mail notification ignored", zap.String("mail_id", n.MailID))
			return nil, ErrDuplicateDelivery
		default:
			claimed = true
		}
	}

	doc, err := m.ProcessMail(ctx, n)
	if !claimed {
		return doc, err
	}
	switch {
	case err == nil || errors.Is(err, ErrDuplicateDelivery):
		if cErr := m.Guard.Confirm(ctx, n.MailID); cErr != nil {
			m.log.Warn("confirm delivery claim failed", zap.String("mail_id", n.MailID), zap.Error(cErr))
		}
	default:
		if relErr := m.Guard.Release(ctx, n.MailID); relErr != nil {
			m.log.Warn("release delivery claim failed", zap.String("mail_id", n.MailID), zap.Error(relErr))
		}
	}
	return doc, err
}

// NotificationFromWebhook normalizes a provider webhook. Certified or legal mail, and mail
// from a court or the IRS, is declared urgent up front.
func NotificationFromWebhook(w model.MailWebhook, now time.Time) model.MailNotification {
	mailType := strings.ToLower(strings.TrimSpace(w.MailType))
	sender := strings.ToLower(w.SenderName)

	urgency := model.UrgencyNormal
	if mailType == model.MailTypeCertified || mailType == model.MailTypeLegal ||
		strings.Contains(sender, "court") || strings.Contains(sender, "irs") {
		urgency = model.UrgencyUrgent
	}

	return model.MailNotification{
		MailID:           strings.TrimSpace(w.MailID),
		RecipientAddress: w.RecipientAddress,
		SenderName:       strings.TrimSpace(w.SenderName),
		ReceivedDate:     parseReceivedDate(w.ReceivedDate, now),
		TrackingNumber:   w.TrackingNumber,
		MailType:         mailType,
		Urgency:          urgency,
	}
}

var receivedDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseReceivedDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range receivedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return now.UTC()
}

// declaredUrgency applies the intake urgency rules before the classifier verdict is merged in.
func declaredUrgency(n model.MailNotification, ocrText, title string) model.UrgencyLevel {
	switch strings.ToLower(n.MailType) {
	case model.MailTypeCertified, model.MailTypeLegal:
		return model.UrgencyUrgent
	}
	if classifier.HasLegalKeyword(ocrText) || classifier.HasLegalKeyword(title) {
		return model.UrgencyUrgent
	}
	if n.Urgency.Valid() {
		return n.Urgency
	}
	return model.UrgencyNormal
}

// senderName prefers the OCR sender, except for placeholder extractions where the webhook's
// sender is the only real value.
func senderName(n model.MailNotification, extracted model.ExtractedFields) string {
	if extracted.Simulated {
		return firstNonEmpty(n.SenderName, unknownSender)
	}
	return firstNonEmpty(extracted.Sender, n.SenderName, unknownSender)
}

func senderAddress(extracted model.ExtractedFields) *string {
	if extracted.Simulated {
		return nil
	}
	return optional(extracted.SenderAddress)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
