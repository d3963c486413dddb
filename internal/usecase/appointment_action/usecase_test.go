package appointment_action

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// memRepo хранит записи в памяти и проверяет версию так же, как репозиторий в БД
type memRepo struct {
	items map[string]*domain.Appointment
	// beforeApply имитирует параллельного писателя, срабатывает один раз
	beforeApply func(stored *domain.Appointment)
}

func clone(a *domain.Appointment) *domain.Appointment {
	c := *a
	c.History = append([]domain.HistoryEntry(nil), a.History...)
	return &c
}

func (r *memRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return clone(a), nil
}

func (r *memRepo) ApplyTransition(_ context.Context, appt *domain.Appointment, tr *domain.Transition) error {
	stored := r.items[appt.ID]
	if r.beforeApply != nil {
		r.beforeApply(stored)
		r.beforeApply = nil
	}
	if stored.Version != appt.Version {
		return appointmentRepo.ErrVersionMismatch
	}
	stored.Apply(tr)
	return nil
}

type dispatched struct {
	kind   domain.NotificationKind
	status domain.Status
}

type fakeDispatcher struct {
	calls []dispatched
}

func (d *fakeDispatcher) TransitionApplied(_ context.Context, appt *domain.Appointment, tr *domain.Transition) {
	d.calls = append(d.calls, dispatched{kind: tr.Notification, status: appt.Status})
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics map[string]int

func (m fakeMetrics) IncTransition(action, outcome string) {
	m[action+"/"+outcome]++
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	customer     = domain.Identity{UserID: "cust-1", Role: domain.RoleCustomer}
	professional = domain.Identity{UserID: "pro-1", Role: domain.RoleProfessional}
)

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:             "appt-1",
		CustomerID:     customer.UserID,
		ProfessionalID: professional.UserID,
		QuotedPrice:    100,
		FinalPrice:     100,
		TotalDuration:  60,
		Status:         domain.StatusPendingProfessionalApproval,
		History: []domain.HistoryEntry{{
			ActionBy:   domain.RoleCustomer,
			UserID:     customer.UserID,
			ActionType: domain.HistoryCreated,
		}},
		Version: 1,
	}
}

type env struct {
	uc         *UseCase
	repo       *memRepo
	dispatcher *fakeDispatcher
	metrics    fakeMetrics
}

func newEnv(appts ...*domain.Appointment) *env {
	repo := &memRepo{items: map[string]*domain.Appointment{}}
	for _, a := range appts {
		repo.items[a.ID] = a
	}
	dispatcher := &fakeDispatcher{}
	metrics := fakeMetrics{}

	uc := NewUseCase(repo, dispatcher, passthroughTx{}, metrics, nopLogger{})
	uc.timeProvider = fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	return &env{uc: uc, repo: repo, dispatcher: dispatcher, metrics: metrics}
}

func TestUseCase_Execute_NegotiationFlow(t *testing.T) {
	e := newEnv(pendingAppointment())
	ctx := context.Background()

	resp, err := e.uc.Execute(ctx, &Request{
		Actor: professional, AppointmentID: "appt-1", Action: "counter", FinalPrice: ptr.Ptr(150.0),
	})
	require.NoError(t, err)
	assert.True(t, resp.Modified)
	assert.Equal(t, domain.StatusCounteredByProfessional, resp.Appointment.Status)
	assert.Equal(t, 150.0, resp.Appointment.FinalPrice)
	assert.Equal(t, 100.0, resp.Appointment.QuotedPrice)
	require.Len(t, resp.Appointment.History, 2)
	assert.Equal(t, 100.0, *resp.Appointment.History[1].Details.OldPrice)
	assert.Equal(t, 150.0, *resp.Appointment.History[1].Details.NewPrice)

	resp, err = e.uc.Execute(ctx, &Request{Actor: customer, AppointmentID: "appt-1", Action: "accept_counter"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)
	assert.Equal(t, 150.0, *resp.Appointment.History[2].Details.FinalPrice)

	resp, err = e.uc.Execute(ctx, &Request{Actor: professional, AppointmentID: "appt-1", Action: "complete"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, resp.Appointment.Status)
	assert.Equal(t, 4, resp.Appointment.Version)
	assert.Len(t, resp.Appointment.History, 4)

	_, err = e.uc.Execute(ctx, &Request{Actor: customer, AppointmentID: "appt-1", Action: "cancel_by_customer"})
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.StatusCompleted, invalid.Status)
	assert.Equal(t, domain.StatusCompleted, e.repo.items["appt-1"].Status)

	assert.Equal(t, []dispatched{
		{kind: domain.NotificationCounterOffered, status: domain.StatusCounteredByProfessional},
		{kind: domain.NotificationAccepted, status: domain.StatusConfirmed},
		{kind: domain.NotificationCompleted, status: domain.StatusCompleted},
	}, e.dispatcher.calls)

	assert.Equal(t, 1, e.metrics["counter/applied"])
	assert.Equal(t, 1, e.metrics["cancel_by_customer/rejected"])
}

func TestUseCase_Execute_RejectUsesDefaultReason(t *testing.T) {
	e := newEnv(pendingAppointment())

	resp, err := e.uc.Execute(context.Background(), &Request{
		Actor: professional, AppointmentID: "appt-1", Action: "reject", Reason: ptr.Ptr("   "),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejectedByProfessional, resp.Appointment.Status)
	assert.Equal(t, domain.ReasonNotProvided, *resp.Appointment.History[1].Details.Reason)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	completed := pendingAppointment()
	completed.ID = "appt-done"
	completed.Status = domain.StatusCompleted

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "unauthenticated",
			req:     &Request{AppointmentID: "appt-1", Action: "confirm"},
			wantErr: domain.ErrAuthentication,
		},
		{
			name:    "unknown action",
			req:     &Request{Actor: professional, AppointmentID: "appt-1", Action: "approve"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing id",
			req:     &Request{Actor: professional, Action: "confirm"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "not found",
			req:     &Request{Actor: professional, AppointmentID: "missing", Action: "confirm"},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "customer cannot confirm",
			req:     &Request{Actor: customer, AppointmentID: "appt-1", Action: "confirm"},
			wantErr: ErrForbidden,
		},
		{
			name: "other professional",
			req: &Request{
				Actor:         domain.Identity{UserID: "pro-2", Role: domain.RoleProfessional},
				AppointmentID: "appt-1",
				Action:        "confirm",
			},
			wantErr: ErrForbidden,
		},
		{
			name: "stranger gets forbidden before status check",
			req: &Request{
				Actor:         domain.Identity{UserID: "pro-2", Role: domain.RoleProfessional},
				AppointmentID: "appt-done",
				Action:        "confirm",
			},
			wantErr: ErrForbidden,
		},
		{
			name:    "counter without price",
			req:     &Request{Actor: professional, AppointmentID: "appt-1", Action: "counter"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "counter with quoted price",
			req:     &Request{Actor: professional, AppointmentID: "appt-1", Action: "counter", FinalPrice: ptr.Ptr(100.0)},
			wantErr: domain.ErrValidation,
		},
		{
			name: "reason too long",
			req: &Request{
				Actor: professional, AppointmentID: "appt-1", Action: "reject",
				Reason: ptr.Ptr(strings.Repeat("x", domain.MaxReasonLength+1)),
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "invalid transition",
			req:     &Request{Actor: customer, AppointmentID: "appt-1", Action: "accept_counter"},
			wantErr: domain.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(pendingAppointment(), clone(completed))

			resp, err := e.uc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			assert.Equal(t, domain.StatusPendingProfessionalApproval, e.repo.items["appt-1"].Status)
			assert.Len(t, e.repo.items["appt-1"].History, 1)
			assert.Empty(t, e.dispatcher.calls)
		})
	}
}

func TestUseCase_Execute_LostRaceToSameTransition(t *testing.T) {
	e := newEnv(pendingAppointment())
	e.repo.beforeApply = func(stored *domain.Appointment) {
		stored.Status = domain.StatusConfirmed
		stored.History = append(stored.History, domain.HistoryEntry{
			ActionBy:   domain.RoleProfessional,
			UserID:     professional.UserID,
			ActionType: domain.HistoryConfirmed,
		})
		stored.Version++
	}

	resp, err := e.uc.Execute(context.Background(), &Request{Actor: professional, AppointmentID: "appt-1", Action: "confirm"})
	require.NoError(t, err)
	assert.False(t, resp.Modified)
	assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)
	assert.Empty(t, e.dispatcher.calls)
	assert.Equal(t, 1, e.metrics["confirm/not_modified"])
}

func TestUseCase_Execute_LostRaceToSameCounterAtSamePrice(t *testing.T) {
	e := newEnv(pendingAppointment())
	e.repo.beforeApply = func(stored *domain.Appointment) {
		stored.Status = domain.StatusCounteredByProfessional
		stored.FinalPrice = 150
		stored.History = append(stored.History, domain.HistoryEntry{
			ActionBy:   domain.RoleProfessional,
			UserID:     professional.UserID,
			ActionType: domain.HistoryCountered,
		})
		stored.Version++
	}

	resp, err := e.uc.Execute(context.Background(), &Request{
		Actor: professional, AppointmentID: "appt-1", Action: "counter", FinalPrice: ptr.Ptr(150.0),
	})
	require.NoError(t, err)
	assert.False(t, resp.Modified)
	assert.Equal(t, 150.0, resp.Appointment.FinalPrice)
	assert.Empty(t, e.dispatcher.calls)
}

func TestUseCase_Execute_LostRaceToCounterAtOtherPrice(t *testing.T) {
	e := newEnv(pendingAppointment())
	e.repo.beforeApply = func(stored *domain.Appointment) {
		stored.Status = domain.StatusCounteredByProfessional
		stored.FinalPrice = 200
		stored.History = append(stored.History, domain.HistoryEntry{
			ActionBy:   domain.RoleProfessional,
			UserID:     professional.UserID,
			ActionType: domain.HistoryCountered,
		})
		stored.Version++
	}

	resp, err := e.uc.Execute(context.Background(), &Request{
		Actor: professional, AppointmentID: "appt-1", Action: "counter", FinalPrice: ptr.Ptr(150.0),
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.Nil(t, resp)
	assert.Equal(t, 200.0, e.repo.items["appt-1"].FinalPrice)
	assert.Empty(t, e.dispatcher.calls)
	assert.Equal(t, 1, e.metrics["counter/conflict"])
}

func TestUseCase_Execute_LostRaceToOtherTransition(t *testing.T) {
	e := newEnv(pendingAppointment())
	e.repo.beforeApply = func(stored *domain.Appointment) {
		stored.Status = domain.StatusCancelledByCustomer
		stored.Version++
	}

	_, err := e.uc.Execute(context.Background(), &Request{Actor: professional, AppointmentID: "appt-1", Action: "confirm"})
	require.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.StatusCancelledByCustomer, e.repo.items["appt-1"].Status)
	assert.Empty(t, e.dispatcher.calls)
	assert.Equal(t, 1, e.metrics["confirm/conflict"])
}

func TestUseCase_Execute_UnknownActionMetricLabel(t *testing.T) {
	e := newEnv(pendingAppointment())

	_, err := e.uc.Execute(context.Background(), &Request{Actor: professional, AppointmentID: "appt-1", Action: "drop table"})
	require.Error(t, err)
	assert.Equal(t, 1, e.metrics["unknown/rejected"])
}
