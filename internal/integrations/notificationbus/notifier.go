package notificationbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Notifier публикует уведомления в Kafka, по одному топику на вид шаблона
type Notifier struct {
	writer      MessageWriter
	topicPrefix string
	log         Logger
}

// NewKafkaWriter создает writer; топик задается в каждом сообщении
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

func NewNotifier(writer MessageWriter, topicPrefix string, log Logger) *Notifier {
	return &Notifier{writer: writer, topicPrefix: topicPrefix, log: log}
}

// Topic имя топика для вида уведомления
func (n *Notifier) Topic(kind domain.NotificationKind) string {
	return n.topicPrefix + "." + string(kind)
}

// Notify публикует уведомление; ключ сообщения равен ID записи,
// чтобы события одной записи попадали в одну партицию
func (n *Notifier) Notify(ctx context.Context, notification domain.Notification) error {
	envelope := Envelope{
		EventID:       uuid.NewString(),
		TemplateKind:  notification.Kind,
		RecipientRole: notification.RecipientRole,
		Recipient:     notification.Recipient,
		Payload:       notification.Payload,
		OccurredAt:    notification.OccurredAt.UTC(),
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Topic: n.Topic(notification.Kind),
		Key:   []byte(notification.Payload.AppointmentID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(envelope.EventID)},
			{Key: "event_type", Value: []byte(notification.Kind)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s: %v", ErrPublish, msg.Topic, err)
	}

	n.log.Info("Notification published: kind=%s, appointment_id=%s, recipient_role=%s",
		notification.Kind, notification.Payload.AppointmentID, notification.RecipientRole)
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

// LogNotifier пишет уведомления в лог, когда Kafka не настроена
type LogNotifier struct {
	log Logger
}

func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, notification domain.Notification) error {
	n.log.Info("Notification (log only): kind=%s, appointment_id=%s, recipient_role=%s, recipient=%s",
		notification.Kind, notification.Payload.AppointmentID, notification.RecipientRole, notification.Recipient.UserID)
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
