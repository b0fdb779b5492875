package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"agentmail/internal/config"
	"agentmail/internal/logger"
	"agentmail/internal/model"
)

// KafkaNotifier publishes notifications as JSON records keyed by entity id, so all
// notifications of one entity land on the same partition in order.
type KafkaNotifier struct {
	client  *kgo.Client
	topic   string
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

const defaultDeliveryTimeout = 5 * time.Second

// NewKafkaNotifier connects to the brokers and makes sure the notification topic exists.
func NewKafkaNotifier(ctx context.Context, cfg config.KafkaConfig, log *zap.Logger) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka notifier: no brokers configured")
	}

	client, err := kgo.NewClient(clientOpts(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	if err := ensureTopic(ctx, kadm.NewClient(client), cfg.NotifyTopic); err != nil {
		client.Close()
		return nil, err
	}

	n := newKafkaNotifier(client, cfg, log)
	n.log.Info("kafka notifier ready", zap.Strings("brokers", cfg.Brokers), zap.Duration("delivery_timeout", n.timeout))
	return n, nil
}

func deliveryTimeout(cfg config.KafkaConfig) time.Duration {
	if d := cfg.DeliveryTimeout(); d > 0 {
		return d
	}
	return defaultDeliveryTimeout
}

// clientOpts caps record delivery so an unreachable cluster fails records instead of
// retrying them forever.
func clientOpts(cfg config.KafkaConfig) []kgo.Opt {
	return []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.NotifyTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.RecordDeliveryTimeout(deliveryTimeout(cfg)),
	}
}

func newKafkaNotifier(client *kgo.Client, cfg config.KafkaConfig, log *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		client:  client,
		topic:   cfg.NotifyTopic,
		timeout: deliveryTimeout(cfg),
		log:     logger.OrNop(log).With(zap.String("component", "notify"), zap.String("topic", cfg.NotifyTopic)),
		now:     time.Now,
	}
}

func ensureTopic(ctx context.Context, adm *kadm.Client, topic string) error {
	resp, err := adm.CreateTopics(ctx, -1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// DocumentReceived produces the event and waits for the broker acknowledgement, at most for
// the configured delivery timeout.
func (n *KafkaNotifier) DocumentReceived(ctx context.Context, entity *model.BusinessEntity, doc *model.ReceivedDocument, scan *model.MailScanResult) error {
	record, err := newRecord(n.topic, NewDocumentReceivedEvent(entity, doc, scan, n.now()))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", EventDocumentReceived, err)
	}
	n.log.Debug("notification published", zap.String("document_id", doc.ID), zap.String("entity_id", entity.ID))
	return nil
}

// Close flushes buffered records and closes the client.
func (n *KafkaNotifier) Close(ctx context.Context) error {
	err := n.client.Flush(ctx)
	n.client.Close()
	return err
}

func newRecord(topic string, ev DocumentReceivedEvent) (*kgo.Record, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(ev.EntityID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
		Timestamp: ev.OccurredAt,
	}, nil
}
