package model

import "time"

// Mail types that always make a document urgent.
const (
	MailTypeCertified = "certified"
	MailTypeLegal     = "legal"
)

// MailWebhook is the payload the virtual-mailbox provider posts when new mail arrives.
type MailWebhook struct {
	MailID           string `json:"mail_id"`
	RecipientAddress string `json:"recipient_address"`
	SenderName       string `json:"sender_name"`
	ReceivedDate     string `json:"received_date"`
	TrackingNumber   string `json:"tracking_number"`
	MailType         string `json:"mail_type"`
}

// MailNotification is the normalized intake request for one mail item.
type MailNotification struct {
	MailID           string
	RecipientAddress string
	SenderName       string
	ReceivedDate     time.Time
	TrackingNumber   string
	MailType         string
	Urgency          UrgencyLevel
}

// ExtractedFields is the normalized OCR output for a scanned mail item.
// Simulated is set when the values are placeholder data rather than a provider result.
type ExtractedFields struct {
	Sender           string  `json:"sender"`
	SenderAddress    string  `json:"senderAddress"`
	Recipient        string  `json:"recipient"`
	RecipientAddress string  `json:"recipientAddress"`
	PostalDate       string  `json:"postalDate"`
	DocumentTitle    string  `json:"documentTitle"`
	DocumentSummary  string  `json:"documentSummary"`
	Confidence       float64 `json:"confidence"`
	Simulated        bool    `json:"simulated,omitempty"`
}

// MailScanResult is the scanning provider's answer for one mail item.
type MailScanResult struct {
	ScanID        string          `json:"scanId"`
	DocumentURL   string          `json:"documentUrl"`
	ThumbnailURL  string          `json:"thumbnailUrl,omitempty"`
	ExtractedData ExtractedFields `json:"extractedData"`
	OCRText       string          `json:"ocrText,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Simulated     bool            `json:"simulated,omitempty"`
}

// Classification is the classifier verdict for a document.
type Classification struct {
	Type         string       `json:"type"`
	Category     string       `json:"category"`
	UrgencyLevel UrgencyLevel `json:"urgency_level"`
}
