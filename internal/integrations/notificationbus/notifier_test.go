package notificationbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func sampleNotification() domain.Notification {
	return domain.Notification{
		Kind:          domain.NotificationCounterOffered,
		RecipientRole: domain.RoleCustomer,
		Recipient:     domain.Recipient{UserID: "cust-1", Email: "bob@example.com", DisplayName: "Bob"},
		Payload: domain.NotificationPayload{
			AppointmentID: "a-1",
			Status:        domain.StatusCounteredByProfessional,
			QuotedPrice:   100,
			FinalPrice:    150,
		},
		OccurredAt: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_Notify(t *testing.T) {
	w := &fakeWriter{}
	n := NewNotifier(w, "appointments.notifications", nopLogger{})

	require.NoError(t, n.Notify(context.Background(), sampleNotification()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "appointments.notifications.counter_offered", msg.Topic)
	assert.Equal(t, "a-1", string(msg.Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, domain.NotificationCounterOffered, env.TemplateKind)
	assert.Equal(t, domain.RoleCustomer, env.RecipientRole)
	assert.Equal(t, "cust-1", env.Recipient.UserID)
	assert.Equal(t, 150.0, env.Payload.FinalPrice)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, env.EventID, headers["event_id"])
	assert.Equal(t, "counter_offered", headers["event_type"])
}

func TestNotifier_WriteFailure(t *testing.T) {
	n := NewNotifier(&fakeWriter{err: errors.New("broker down")}, "p", nopLogger{})

	err := n.Notify(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, ErrPublish)
	assert.ErrorIs(t, err, domain.ErrNotification)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitBrokers(""))
}
