package provider

import (
	"fmt"
	"time"

	"agentmail/internal/model"
)

// Confidence reported for placeholder data. Both stay below what a real extraction would claim.
const (
	SimulatedScanConfidence = 0.92
	SimulatedOCRConfidence  = 0.85
)

// SimulatedExtraction returns the fixed extraction used when OCR is unavailable.
// postalDate is the only varying field.
func SimulatedExtraction(postalDate time.Time) model.ExtractedFields {
	return model.ExtractedFields{
		Sender:           "Delaware Division of Corporations",
		SenderAddress:    "401 Federal Street, Suite 4, Dover, DE 19901",
		Recipient:        "Registered Agent",
		RecipientAddress: "",
		PostalDate:       postalDate.UTC().Format("2006-01-02"),
		DocumentTitle:    "Annual Report Reminder",
		DocumentSummary:  "Reminder that the annual report filing for the entity is due.",
		Confidence:       SimulatedOCRConfidence,
		Simulated:        true,
	}
}

// SimulatedScan returns the fixed scan result used when the scanning provider is unavailable.
func SimulatedScan(mailID string, now time.Time) *model.MailScanResult {
	extracted := SimulatedExtraction(now)
	extracted.Confidence = SimulatedScanConfidence
	return &model.MailScanResult{
		ScanID:        "sim_scan_" + mailID,
		DocumentURL:   fmt.Sprintf("https://storage.simulated.invalid/scans/%s.pdf", mailID),
		ThumbnailURL:  fmt.Sprintf("https://storage.simulated.invalid/scans/%s_thumb.jpg", mailID),
		ExtractedData: extracted,
		OCRText:       extracted.DocumentSummary,
		Metadata: map[string]any{
			"pages":      1,
			"scanned_at": now.UTC().Format(time.RFC3339),
		},
		Simulated: true,
	}
}
