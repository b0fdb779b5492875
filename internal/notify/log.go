package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agentmail/internal/logger"
	"agentmail/internal/model"
)

// LogNotifier writes the notification to the log. It is used when no broker is configured.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger.OrNop(log)}
}

func (n *LogNotifier) DocumentReceived(ctx context.Context, entity *model.BusinessEntity, doc *model.ReceivedDocument, scan *model.MailScanResult) error {
	ev := NewDocumentReceivedEvent(entity, doc, scan, time.Now())
	n.log.Info("client notification",
		zap.String("event", ev.Type),
		zap.String("entity_id", ev.EntityID),
		zap.String("contact_email", ev.ContactEmail),
		zap.String("document_id", ev.DocumentID),
		zap.String("document_title", ev.DocumentTitle),
		zap.String("urgency_level", string(ev.Urgency)),
		zap.Bool("simulated", ev.Simulated),
	)
	return nil
}
