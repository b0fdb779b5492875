package model

import "time"

// UrgencyLevel is the coarse priority assigned to a received document.
type UrgencyLevel string

const (
	UrgencyUrgent UrgencyLevel = "urgent"
	UrgencyNormal UrgencyLevel = "normal"
	UrgencyLow    UrgencyLevel = "low"
)

func (u UrgencyLevel) rank() int {
	switch u {
	case UrgencyUrgent:
		return 2
	case UrgencyNormal:
		return 1
	default:
		return 0
	}
}

// Valid reports whether u is one of the known urgency levels.
func (u UrgencyLevel) Valid() bool {
	return u == UrgencyUrgent || u == UrgencyNormal || u == UrgencyLow
}

// MaxUrgency returns the more urgent of a and b.
func MaxUrgency(a, b UrgencyLevel) UrgencyLevel {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// DocumentStatus tracks a received document through handling.
// Transitions only move forward: received -> processed -> forwarded.
type DocumentStatus string

const (
	StatusReceived  DocumentStatus = "received"
	StatusProcessed DocumentStatus = "processed"
	StatusForwarded DocumentStatus = "forwarded"
)

func (s DocumentStatus) step() int {
	switch s {
	case StatusReceived:
		return 1
	case StatusProcessed:
		return 2
	case StatusForwarded:
		return 3
	default:
		return 0
	}
}

// CanTransitionTo reports whether moving from s to next goes strictly forward.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	return s.step() > 0 && next.step() > s.step()
}

// ReceivedDocument is one mail item received on behalf of a business entity.
// Documents are compliance records and are never deleted.
type ReceivedDocument struct {
	ID                  string         `json:"id"`
	BusinessEntityID    string         `json:"business_entity_id"`
	MailID              string         `json:"mail_id"`
	DocumentType        string         `json:"document_type"`
	DocumentCategory    string         `json:"document_category"`
	SenderName          string         `json:"sender_name"`
	SenderAddress       *string        `json:"sender_address,omitempty"`
	DocumentTitle       string         `json:"document_title"`
	DocumentDescription *string        `json:"document_description,omitempty"`
	UrgencyLevel        UrgencyLevel   `json:"urgency_level"`
	DigitalDocumentURL  string         `json:"digital_document_url"`
	HandledBy           string         `json:"handled_by"`
	ReceivedDate        time.Time      `json:"received_date"`
	Status              DocumentStatus `json:"status"`
	ForwardedDate       *time.Time     `json:"forwarded_date,omitempty"`
	ClientNotifiedDate  *time.Time     `json:"client_notified_date,omitempty"`
	Simulated           bool           `json:"simulated"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
