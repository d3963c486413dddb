package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingNotifier struct {
	sent []domain.Notification
	fail map[domain.Role]bool
}

func (n *recordingNotifier) Notify(_ context.Context, notification domain.Notification) error {
	if n.fail[notification.RecipientRole] {
		return errors.New("delivery failed")
	}
	n.sent = append(n.sent, notification)
	return nil
}

type staticDirectory map[string]*domain.User

func (d staticDirectory) GetUser(_ context.Context, id string) (*domain.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

type countingMetrics map[string]int

func (m countingMetrics) IncNotification(kind, outcome string) {
	m[kind+"/"+outcome]++
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:                   "a-1",
		CustomerID:           "cust-1",
		ProfessionalID:       "pro-1",
		AppointmentDate:      mustDate("2024-01-15"),
		StartTime:            "14:00",
		ProfessionalTimezone: "America/New_York",
		QuotedPrice:          100,
		FinalPrice:           100,
		Services: []domain.ServiceItem{
			{Name: "Tax return", Price: 80, DurationMinutes: 45},
			{Name: "Consultation", Price: 20, DurationMinutes: 15},
		},
		Status:    domain.StatusPendingProfessionalApproval,
		Version:   1,
		CreatedAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func directory() staticDirectory {
	return staticDirectory{
		"cust-1": {ID: "cust-1", Role: domain.RoleCustomer, DisplayName: "Bob", Email: "bob@example.com"},
		"pro-1":  {ID: "pro-1", Role: domain.RoleProfessional, DisplayName: "Jane", Email: "jane@example.com"},
	}
}

func TestDispatcher_AppointmentCreated_NotifiesBothParties(t *testing.T) {
	notifier := &recordingNotifier{}
	metrics := countingMetrics{}
	d := NewDispatcher(notifier, directory(), metrics, nopLogger{})

	d.AppointmentCreated(context.Background(), testAppointment())

	require.Len(t, notifier.sent, 2)
	roles := []domain.Role{notifier.sent[0].RecipientRole, notifier.sent[1].RecipientRole}
	assert.ElementsMatch(t, []domain.Role{domain.RoleCustomer, domain.RoleProfessional}, roles)

	n := notifier.sent[0]
	assert.Equal(t, domain.NotificationCreated, n.Kind)
	assert.Equal(t, "Jane", n.Payload.ProfessionalName)
	assert.Equal(t, "Bob", n.Payload.CustomerName)
	assert.Equal(t, "Tax return, Consultation", n.Payload.ServiceSummary)
	assert.Equal(t, "09:00", n.Payload.LocalTime, "14:00 UTC is 09:00 in New York in January")
	assert.Equal(t, "America/New_York", n.Payload.Timezone)
	assert.Equal(t, 2, metrics["created/sent"])
}

func TestDispatcher_TransitionApplied_UsesTransitionRecipients(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier, directory(), nil, nopLogger{})
	appt := testAppointment()

	price := 150.0
	tr, err := domain.Decide(appt, domain.Identity{UserID: "pro-1", Role: domain.RoleProfessional},
		domain.Command{Action: domain.ActionCounter, FinalPrice: &price}, time.Now())
	require.NoError(t, err)
	appt.Apply(tr)

	d.TransitionApplied(context.Background(), appt, tr)

	require.Len(t, notifier.sent, 1)
	n := notifier.sent[0]
	assert.Equal(t, domain.NotificationCounterOffered, n.Kind)
	assert.Equal(t, domain.RoleCustomer, n.RecipientRole)
	assert.Equal(t, "bob@example.com", n.Recipient.Email)
	assert.Equal(t, 150.0, n.Payload.FinalPrice)
	require.NotNil(t, n.Payload.OldPrice)
	assert.Equal(t, 100.0, *n.Payload.OldPrice)
}

func TestDispatcher_SwallowsFailures(t *testing.T) {
	notifier := &recordingNotifier{fail: map[domain.Role]bool{domain.RoleProfessional: true}}
	metrics := countingMetrics{}
	d := NewDispatcher(notifier, staticDirectory{}, metrics, nopLogger{})

	d.AppointmentCreated(context.Background(), testAppointment())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, domain.RoleCustomer, notifier.sent[0].RecipientRole)
	assert.Equal(t, "cust-1", notifier.sent[0].Recipient.UserID)
	assert.Empty(t, notifier.sent[0].Recipient.DisplayName)
	assert.Equal(t, 1, metrics["created/failed"])
	assert.Equal(t, 1, metrics["created/sent"])
}

func TestDispatcher_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier, nil, nil, nopLogger{})
	appt := testAppointment()
	appt.ProfessionalTimezone = "Mars/Olympus"

	d.AppointmentCreated(context.Background(), appt)

	require.NotEmpty(t, notifier.sent)
	assert.Equal(t, "14:00", notifier.sent[0].Payload.LocalTime)
	assert.Equal(t, "UTC", notifier.sent[0].Payload.Timezone)
}

func mustDate(s string) types.Date {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
