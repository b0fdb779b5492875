// Package notify delivers "document received" notifications to the client-facing channel.
package notify

import (
	"context"
	"time"

	"agentmail/internal/model"
)

// EventDocumentReceived is the event type published for every persisted document.
const EventDocumentReceived = "document.received"

// Notifier tells a client that mail arrived for one of its entities.
type Notifier interface {
	DocumentReceived(ctx context.Context, entity *model.BusinessEntity, doc *model.ReceivedDocument, scan *model.MailScanResult) error
}

// DocumentReceivedEvent is the payload handed to the notification channel.
type DocumentReceivedEvent struct {
	Type          string             `json:"type"`
	EntityID      string             `json:"entity_id"`
	EntityName    string             `json:"entity_name"`
	ContactEmail  string             `json:"contact_email,omitempty"`
	DocumentID    string             `json:"document_id"`
	DocumentTitle string             `json:"document_title"`
	DocumentType  string             `json:"document_type"`
	Category      string             `json:"document_category"`
	Urgency       model.UrgencyLevel `json:"urgency_level"`
	SenderName    string             `json:"sender_name"`
	DocumentURL   string             `json:"digital_document_url"`
	ThumbnailURL  string             `json:"thumbnail_url,omitempty"`
	ScanID        string             `json:"scan_id,omitempty"`
	ReceivedDate  time.Time          `json:"received_date"`
	Simulated     bool               `json:"simulated"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// NewDocumentReceivedEvent assembles the event for a persisted document. scan may be nil.
func NewDocumentReceivedEvent(entity *model.BusinessEntity, doc *model.ReceivedDocument, scan *model.MailScanResult, now time.Time) DocumentReceivedEvent {
	ev := DocumentReceivedEvent{
		Type:          EventDocumentReceived,
		EntityID:      entity.ID,
		EntityName:    entity.Name,
		ContactEmail:  entity.ContactEmail,
		DocumentID:    doc.ID,
		DocumentTitle: doc.DocumentTitle,
		DocumentType:  doc.DocumentType,
		Category:      doc.DocumentCategory,
		Urgency:       doc.UrgencyLevel,
		SenderName:    doc.SenderName,
		DocumentURL:   doc.DigitalDocumentURL,
		ReceivedDate:  doc.ReceivedDate,
		Simulated:     doc.Simulated,
		OccurredAt:    now.UTC(),
	}
	if scan != nil {
		ev.ScanID = scan.ScanID
		ev.ThumbnailURL = scan.ThumbnailURL
	}
	return ev
}
