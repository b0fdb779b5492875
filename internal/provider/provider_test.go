package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(CategoryUnavailable, "mailbox", "request failed", cause)

	assert.Equal(t, "provider mailbox [unavailable]: request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CategoryUnavailable, CategoryOf(fmt.Errorf("scan: %w", err)))
	assert.Equal(t, Category(""), CategoryOf(cause))

	bare := NewError(CategoryMalformed, "mindee", "missing prediction", nil)
	assert.Equal(t, "provider mindee [malformed_response]: missing prediction", bare.Error())
}

func TestTransportError(t *testing.T) {
	assert.Equal(t, CategoryTimeout, TransportError("mindee", fmt.Errorf("post: %w", context.DeadlineExceeded)).Category)
	assert.Equal(t, CategoryUnavailable, TransportError("mindee", errors.New("dial tcp: refused")).Category)
}

func TestSimulatedScan(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	scan := SimulatedScan("mail_123", now)

	assert.Equal(t, "sim_scan_mail_123", scan.ScanID)
	assert.True(t, scan.Simulated)
	assert.True(t, scan.ExtractedData.Simulated)
	assert.Equal(t, "Delaware Division of Corporations", scan.ExtractedData.Sender)
	assert.Equal(t, 0.92, scan.ExtractedData.Confidence)
	assert.Equal(t, "2024-03-15", scan.ExtractedData.PostalDate)
	assert.NotEmpty(t, scan.DocumentURL)
	assert.NotEmpty(t, scan.ExtractedData.DocumentTitle)
	assert.Equal(t, scan, SimulatedScan("mail_123", now))
}

func TestSimulatedExtraction(t *testing.T) {
	ex := SimulatedExtraction(time.Now())

	assert.Equal(t, 0.85, ex.Confidence)
	assert.Less(t, ex.Confidence, 0.9)
	assert.True(t, ex.Simulated)
	assert.NotEmpty(t, ex.Sender)
	assert.NotEmpty(t, ex.DocumentTitle)
}
