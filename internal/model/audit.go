package model

import "time"

// Audit actions recorded against received documents.
const (
	AuditActionReceived      = "received"
	AuditActionProcessed     = "processed"
	AuditActionForwarded     = "forwarded"
	AuditActionMailProcessed = "mail_processed"
)

// AuditEntry is an immutable record of an action taken on a received document.
type AuditEntry struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Details     string    `json:"details"`
	IPAddress   *string   `json:"ip_address,omitempty"`
	UserAgent   *string   `json:"user_agent,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
