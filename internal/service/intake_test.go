package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"agentmail/internal/metrics"
	"agentmail/internal/model"
	"agentmail/internal/provider"
	"agentmail/internal/repository"
	repoMocks "agentmail/internal/repository/mocks"
	"agentmail/internal/requestmeta"
)

type stubScanner struct {
	res   *model.MailScanResult
	err   error
	calls int
}

func (s *stubScanner) RequestScan(_ context.Context, _ string) (*model.MailScanResult, error) {
	s.calls++
	return s.res, s.err
}

type stubOCR struct {
	res model.ExtractedFields
	err error
}

func (s *stubOCR) Extract(_ context.Context, _ string) (model.ExtractedFields, error) {
	return s.res, s.err
}

type recordingNotifier struct {
	docs []*model.ReceivedDocument
	err  error
	// hang blocks delivery until the context ends.
	hang bool
}

func (n *recordingNotifier) DocumentReceived(ctx context.Context, _ *model.BusinessEntity, doc *model.ReceivedDocument, _ *model.MailScanResult) error {
	n.docs = append(n.docs, doc)
	if n.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return n.err
}

type memoryGuard struct {
	claimed   map[string]bool
	released  []string
	confirmed []string
	err       error
}

func (g *memoryGuard) Claim(_ context.Context, mailID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.claimed[mailID] {
		return false, nil
	}
	g.claimed[mailID] = true
	return true, nil
}

func (g *memoryGuard) Confirm(_ context.Context, mailID string) error {
	g.confirmed = append(g.confirmed, mailID)
	return nil
}

func (g *memoryGuard) Release(_ context.Context, mailID string) error {
	delete(g.claimed, mailID)
	g.released = append(g.released, mailID)
	return nil
}

var intakeNow = time.Date(2024, 5, 6, 14, 0, 0, 0, time.UTC)

type intakeFixture struct {
	entities  *repoMocks.MockEntityRepository
	documents *repoMocks.MockDocumentRepository
	audits    *repoMocks.MockAuditRepository
	tx        *passthroughTx
	scanner   *stubScanner
	ocr       *stubOCR
	notifier  *recordingNotifier
	guard     *memoryGuard
	reg       *prometheus.Registry
	logger    *zap.Logger
	logs      *observer.ObservedLogs
	appended  []*model.AuditEntry
	timeout   time.Duration
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return &intakeFixture{
		entities:  new(repoMocks.MockEntityRepository),
		documents: new(repoMocks.MockDocumentRepository),
		audits:    new(repoMocks.MockAuditRepository),
		tx:        &passthroughTx{},
		scanner: &stubScanner{res: &model.MailScanResult{
			ScanID:      "scan-1",
			DocumentURL: "https://scans.example.com/mail-1.pdf",
			OCRText:     "Please find enclosed the notice.",
		}},
		ocr: &stubOCR{res: model.ExtractedFields{
			Sender:          "Secretary of State",
			SenderAddress:   "401 Federal Street, Dover, DE 19901",
			DocumentTitle:   "Statement of Information",
			DocumentSummary: "Biennial statement reminder.",
			Confidence:      0.91,
		}},
		notifier: &recordingNotifier{},
		guard:    &memoryGuard{claimed: map[string]bool{}},
		reg:      prometheus.NewRegistry(),
		logger:   zap.New(core),
		logs:     logs,
	}
}

func (f *intakeFixture) intake(t *testing.T) MailIntake {
	t.Helper()
	m, err := metrics.NewIntakeMetrics(f.reg)
	require.NoError(t, err)
	svc := NewMailIntake(IntakeDeps{
		Entities:  f.entities,
		Documents: f.documents,
		Audits:    f.audits,
		Tx:        f.tx,
		Scanner:   f.scanner,
		OCR:       f.ocr,
		Notifier:  f.notifier,
		Guard:     f.guard,
		Metrics:   m,
		AgentName:     "Acme Registered Agents",
		Logger:        f.logger,
		NotifyTimeout: f.timeout,
	}).(*mailIntake)
	svc.now = fixedClock(intakeNow)
	return svc
}

// expectPersist wires the document and audit repositories to echo their input.
func (f *intakeFixture) expectPersist() {
	f.entities.On("FindByMailboxAddress", mock.Anything, "PMB 1234, 1000 N West St, Wilmington, DE").
		Return(testEntity, nil)
	f.documents.On("Create", mock.Anything, mock.Anything).
		Return(func(_ context.Context, d *model.ReceivedDocument) *model.ReceivedDocument { return d }, nil)
	f.audits.On("Append", mock.Anything, mock.Anything).
		Return(func(_ context.Context, e *model.AuditEntry) *model.AuditEntry {
			f.appended = append(f.appended, e)
			return e
		}, nil)
}

func baseNotification() model.MailNotification {
	return model.MailNotification{
		MailID:           "mail-1",
		RecipientAddress: "PMB 1234, 1000 N West St, Wilmington, DE",
		SenderName:       "Secretary of State",
		ReceivedDate:     time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC),
		MailType:         "standard",
	}
}

func TestMailIntake_ProcessMail(t *testing.T) {
	ctx := requestmeta.WithClientMetadata(context.Background(), "203.0.113.7", "mailbox-webhook/1.0")

	t.Run("persists document with two audit entries", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()

		doc, err := f.intake(t).ProcessMail(ctx, baseNotification())

		require.NoError(t, err)
		assert.Equal(t, "ent-1", doc.BusinessEntityID)
		assert.Equal(t, "mail-1", doc.MailID)
		assert.Equal(t, model.StatusReceived, doc.Status)
		assert.Equal(t, "Statement of Information", doc.DocumentTitle)
		assert.Equal(t, "Secretary of State", doc.SenderName)
		assert.Equal(t, "legal_notice", doc.DocumentType)
		assert.Equal(t, "compliance_notice", doc.DocumentCategory)
		assert.Equal(t, model.UrgencyNormal, doc.UrgencyLevel)
		assert.Equal(t, "https://scans.example.com/mail-1.pdf", doc.DigitalDocumentURL)
		assert.Equal(t, "Acme Registered Agents", doc.HandledBy)
		assert.Equal(t, baseNotification().ReceivedDate, doc.ReceivedDate)
		require.NotNil(t, doc.SenderAddress)
		require.NotNil(t, doc.DocumentDescription)
		assert.False(t, doc.Simulated)

		require.Len(t, f.appended, 2)
		assert.Equal(t, model.AuditActionReceived, f.appended[0].Action)
		assert.Equal(t, model.AuditActionMailProcessed, f.appended[1].Action)
		assert.False(t, f.appended[1].Timestamp.Before(f.appended[0].Timestamp))
		for _, e := range f.appended {
			assert.Equal(t, doc.ID, e.DocumentID)
			require.NotNil(t, e.IPAddress)
			assert.Equal(t, "203.0.113.7", *e.IPAddress)
		}

		var details map[string]any
		require.NoError(t, json.Unmarshal([]byte(f.appended[1].Details), &details))
		assert.Equal(t, "mail-1", details["mail_id"])
		assert.Equal(t, "scan-1", details["scan_id"])
		assert.Contains(t, details, "extracted_data")
		assert.Contains(t, details, "processed_at")

		assert.Equal(t, 1, f.tx.calls)
		require.Len(t, f.notifier.docs, 1)
		assert.Equal(t, doc.ID, f.notifier.docs[0].ID)
	})

	t.Run("certified mail is always urgent", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		n := baseNotification()
		n.MailType = "certified"
		n.Urgency = model.UrgencyLow

		doc, err := f.intake(t).ProcessMail(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, model.UrgencyUrgent, doc.UrgencyLevel)
	})

	t.Run("legal keyword in ocr text makes it urgent", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.scanner.res.OCRText = "You are hereby served with a SUMMONS."

		doc, err := f.intake(t).ProcessMail(ctx, baseNotification())

		require.NoError(t, err)
		assert.Equal(t, model.UrgencyUrgent, doc.UrgencyLevel)
	})

	t.Run("declared urgency never lowers the classifier verdict", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.ocr.res.DocumentTitle = "Notice of Lawsuit"
		n := baseNotification()
		n.Urgency = model.UrgencyLow

		doc, err := f.intake(t).ProcessMail(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, "subpoena", doc.DocumentCategory)
		assert.Equal(t, model.UrgencyUrgent, doc.UrgencyLevel)
	})

	t.Run("declared low urgency is raised to the classifier default", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.ocr.res.DocumentTitle = "Newsletter"
		n := baseNotification()
		n.SenderName = "Acme Supplies"
		n.Urgency = model.UrgencyLow

		doc, err := f.intake(t).ProcessMail(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, "other", doc.DocumentType)
		assert.Equal(t, model.UrgencyNormal, doc.UrgencyLevel)
	})

	t.Run("simulated providers still populate required fields", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.scanner.res = provider.SimulatedScan("mail-1", intakeNow)
		f.ocr.res = provider.SimulatedExtraction(intakeNow)
		n := baseNotification()
		n.SenderName = ""

		doc, err := f.intake(t).ProcessMail(ctx, n)

		require.NoError(t, err)
		assert.True(t, doc.Simulated)
		assert.Equal(t, "Annual Report Reminder", doc.DocumentTitle)
		assert.Equal(t, "Unknown Sender", doc.SenderName)
		assert.NotEmpty(t, doc.UrgencyLevel)
		assert.Equal(t, "annual_report", doc.DocumentType)

		expected := `
# HELP provider_fallback_total Provider calls answered with simulated data.
# TYPE provider_fallback_total counter
provider_fallback_total{provider="ocr"} 1
provider_fallback_total{provider="scan"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "provider_fallback_total"))
	})

	t.Run("placeholder extraction keeps the webhook sender", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.scanner.res = provider.SimulatedScan("mail-1", intakeNow)
		f.ocr.res = provider.SimulatedExtraction(intakeNow)
		n := baseNotification()
		n.SenderName = "Superior Court of California"

		doc, err := f.intake(t).ProcessMail(ctx, n)

		require.NoError(t, err)
		assert.True(t, doc.Simulated)
		assert.Equal(t, "Superior Court of California", doc.SenderName)
		assert.Nil(t, doc.SenderAddress)
		assert.Contains(t, f.appended[0].Details, "from Superior Court of California")
	})

	t.Run("missing ocr title falls back to sender then placeholder", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.ocr.res = model.ExtractedFields{}
		n := baseNotification()
		n.SenderName = ""

		doc, err := f.intake(t).ProcessMail(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, "Unknown Document", doc.DocumentTitle)
		assert.Equal(t, "Unknown Sender", doc.SenderName)
		assert.Nil(t, doc.SenderAddress)
		assert.Nil(t, doc.DocumentDescription)
	})

	t.Run("unknown recipient writes nothing", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.entities.On("FindByMailboxAddress", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

		doc, err := f.intake(t).ProcessMail(requestmeta.WithRequestID(ctx, "rid-9"), baseNotification())

		assert.ErrorIs(t, err, ErrEntityNotFound)
		assert.Nil(t, doc)
		assert.Equal(t, 0, f.scanner.calls)
		f.documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.audits.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		dropped := f.logs.FilterMessage("no business entity for recipient address, mail dropped").All()
		require.Len(t, dropped, 1)
		assert.Equal(t, "rid-9", dropped[0].ContextMap()["request_id"])

		expected := `
# HELP mail_intake_total Mail notifications handled, by outcome.
# TYPE mail_intake_total counter
mail_intake_total{outcome="no_entity"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "mail_intake_total"))
	})

	t.Run("missing mail id", func(t *testing.T) {
		f := newIntakeFixture(t)
		n := baseNotification()
		n.MailID = " "

		_, err := f.intake(t).ProcessMail(ctx, n)

		assert.ErrorIs(t, err, ErrMailIDRequired)
	})

	t.Run("nil scan result", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.entities.On("FindByMailboxAddress", mock.Anything, mock.Anything).Return(testEntity, nil)
		f.scanner.res = nil

		_, err := f.intake(t).ProcessMail(ctx, baseNotification())

		assert.ErrorIs(t, err, ErrNoScanResult)
		f.documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("audit failure fails the intake", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.entities.On("FindByMailboxAddress", mock.Anything, mock.Anything).Return(testEntity, nil)
		f.documents.On("Create", mock.Anything, mock.Anything).
			Return(func(_ context.Context, d *model.ReceivedDocument) *model.ReceivedDocument { return d }, nil)
		f.audits.On("Append", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := f.intake(t).ProcessMail(ctx, baseNotification())

		assert.ErrorContains(t, err, "append received audit: db fail")
		assert.Empty(t, f.notifier.docs)
	})

	t.Run("notification failure does not fail the intake", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.notifier.err = errors.New("broker down")

		doc, err := f.intake(t).ProcessMail(ctx, baseNotification())

		require.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, 1, f.logs.FilterMessage("client notification failed").Len())
	})

	t.Run("stalled notification is cut off after the timeout", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.notifier.hang = true
		f.timeout = 50 * time.Millisecond

		reqCtx, cancel := context.WithCancel(ctx)
		cancel()
		started := time.Now()
		doc, err := f.intake(t).ProcessMail(reqCtx, baseNotification())

		require.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Less(t, time.Since(started), 5*time.Second)
		failed := f.logs.FilterMessage("client notification failed").All()
		require.Len(t, failed, 1)
		assert.Contains(t, failed[0].ContextMap()["error"], "deadline exceeded")
	})

	t.Run("mail already stored is reported as a duplicate", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.entities.On("FindByMailboxAddress", mock.Anything, mock.Anything).Return(testEntity, nil)
		f.documents.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: mail-1", repository.ErrDuplicateMail))

		doc, err := f.intake(t).ProcessMail(ctx, baseNotification())

		assert.ErrorIs(t, err, ErrDuplicateDelivery)
		assert.Nil(t, doc)
		f.audits.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		assert.Empty(t, f.notifier.docs)

		expected := `
# HELP mail_intake_total Mail notifications handled, by outcome.
# TYPE mail_intake_total counter
mail_intake_total{outcome="duplicate"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "mail_intake_total"))
	})
}

func TestMailIntake_HandleMailNotification(t *testing.T) {
	ctx := context.Background()
	webhook := model.MailWebhook{
		MailID:           "mail-1",
		RecipientAddress: "PMB 1234, 1000 N West St, Wilmington, DE",
		SenderName:       "Secretary of State",
		ReceivedDate:     "2024-05-06",
		TrackingNumber:   "9400100000000000000000",
		MailType:         "standard",
	}

	t.Run("processes once and ignores redelivery", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		svc := f.intake(t)

		doc, err := svc.HandleMailNotification(ctx, webhook)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), doc.ReceivedDate)

		_, err = svc.HandleMailNotification(ctx, webhook)
		assert.ErrorIs(t, err, ErrDuplicateDelivery)
		f.documents.AssertNumberOfCalls(t, "Create", 1)
		assert.Equal(t, []string{"mail-1"}, f.guard.confirmed)
	})

	t.Run("expired claim is caught by the stored mail id", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.entities.On("FindByMailboxAddress", mock.Anything, mock.Anything).Return(testEntity, nil)
		f.documents.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: mail-1", repository.ErrDuplicateMail))

		_, err := f.intake(t).HandleMailNotification(ctx, webhook)

		assert.ErrorIs(t, err, ErrDuplicateDelivery)
		assert.Equal(t, []string{"mail-1"}, f.guard.confirmed)
		assert.Empty(t, f.guard.released)
		assert.Equal(t, 1, f.logs.FilterMessage("mail already recorded, redelivery ignored").Len())
	})

	t.Run("failed processing releases the claim", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.entities.On("FindByMailboxAddress", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

		_, err := f.intake(t).HandleMailNotification(ctx, webhook)

		assert.ErrorIs(t, err, ErrEntityNotFound)
		assert.Equal(t, []string{"mail-1"}, f.guard.released)
		assert.Empty(t, f.guard.claimed)
		assert.Empty(t, f.guard.confirmed)
	})

	t.Run("guard outage fails open", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.expectPersist()
		f.guard.err = errors.New("redis down")

		doc, err := f.intake(t).HandleMailNotification(ctx, webhook)

		require.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, 1, f.logs.FilterMessage("delivery guard unavailable, processing without dedupe").Len())
	})

	t.Run("missing mail id", func(t *testing.T) {
		f := newIntakeFixture(t)

		_, err := f.intake(t).HandleMailNotification(ctx, model.MailWebhook{})

		assert.ErrorIs(t, err, ErrMailIDRequired)
	})
}

func TestNotificationFromWebhook(t *testing.T) {
	now := time.Date(2024, 5, 6, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		webhook     model.MailWebhook
		wantUrgency model.UrgencyLevel
		wantDate    time.Time
	}{
		{
			name:        "certified mail",
			webhook:     model.MailWebhook{MailID: "m", MailType: "Certified", ReceivedDate: "2024-05-01T10:30:00Z"},
			wantUrgency: model.UrgencyUrgent,
			wantDate:    time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:        "legal mail",
			webhook:     model.MailWebhook{MailID: "m", MailType: "legal"},
			wantUrgency: model.UrgencyUrgent,
			wantDate:    now,
		},
		{
			name:        "court sender",
			webhook:     model.MailWebhook{MailID: "m", SenderName: "Superior Court of California"},
			wantUrgency: model.UrgencyUrgent,
			wantDate:    now,
		},
		{
			name:        "irs sender",
			webhook:     model.MailWebhook{MailID: "m", SenderName: "IRS"},
			wantUrgency: model.UrgencyUrgent,
			wantDate:    now,
		},
		{
			name:        "ordinary mail with unparseable date",
			webhook:     model.MailWebhook{MailID: "m", SenderName: "Acme Supplies", MailType: "standard", ReceivedDate: "yesterday"},
			wantUrgency: model.UrgencyNormal,
			wantDate:    now,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NotificationFromWebhook(tt.webhook, now)
			assert.Equal(t, tt.wantUrgency, n.Urgency)
			assert.Equal(t, tt.wantDate, n.ReceivedDate)
		})
	}
}
