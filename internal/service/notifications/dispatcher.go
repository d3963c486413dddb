package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	outcomeSent   = "sent"
	outcomeFailed = "failed"

	dispatchTimeout = 5 * time.Second
)

// Dispatcher рассылает уведомления участникам после успешных действий.
// Ошибки доставки логируются и не возвращаются вызывающему.
type Dispatcher struct {
	notifier  Notifier
	directory UserDirectory
	metrics   MetricsRecorder
	logger    Logger
}

// NewDispatcher создает диспетчер; metrics может быть nil
func NewDispatcher(notifier Notifier, directory UserDirectory, metrics MetricsRecorder, logger Logger) *Dispatcher {
	return &Dispatcher{
		notifier:  notifier,
		directory: directory,
		metrics:   metrics,
		logger:    logger,
	}
}

// AppointmentCreated уведомляет обоих участников о новой записи
func (d *Dispatcher) AppointmentCreated(ctx context.Context, appt *domain.Appointment) {
	d.dispatch(ctx, appt, domain.NotificationCreated, []domain.Role{domain.RoleProfessional, domain.RoleCustomer}, domain.HistoryDetails{}, appt.CreatedAt)
}

// TransitionApplied уведомляет адресатов перехода; appt уже содержит новое состояние
func (d *Dispatcher) TransitionApplied(ctx context.Context, appt *domain.Appointment, tr *domain.Transition) {
	d.dispatch(ctx, appt, tr.Notification, tr.Recipients, tr.Entry.Details, tr.Entry.Timestamp)
}

func (d *Dispatcher) dispatch(
	ctx context.Context,
	appt *domain.Appointment,
	kind domain.NotificationKind,
	recipients []domain.Role,
	details domain.HistoryDetails,
	occurredAt time.Time,
) {
	// Отмена запроса клиентом не должна прерывать рассылку уже сохраненного действия
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	customer := d.lookup(ctx, appt.CustomerID)
	professional := d.lookup(ctx, appt.ProfessionalID)
	payload := d.buildPayload(appt, customer, professional, details)

	for _, role := range recipients {
		recipient := customer
		if role == domain.RoleProfessional {
			recipient = professional
		}

		err := d.notifier.Notify(ctx, domain.Notification{
			Kind:          kind,
			RecipientRole: role,
			Recipient:     recipient,
			Payload:       payload,
			OccurredAt:    occurredAt,
		})
		if err != nil {
			d.logger.Error("Notification failed: kind=%s, appointment_id=%s, recipient_role=%s: %v",
				kind, appt.ID, role, err)
			d.record(kind, outcomeFailed)
			continue
		}
		d.record(kind, outcomeSent)
	}
}

// lookup получает имя и адрес участника; при ошибке справочника уведомление уходит только с ID
func (d *Dispatcher) lookup(ctx context.Context, userID string) domain.Recipient {
	recipient := domain.Recipient{UserID: userID}
	if d.directory == nil {
		return recipient
	}

	user, err := d.directory.GetUser(ctx, userID)
	if err != nil {
		d.logger.Warn("Notification recipient lookup failed for user_id=%s: %v", userID, err)
		return recipient
	}

	recipient.Email = user.Email
	recipient.DisplayName = user.DisplayName
	return recipient
}

func (d *Dispatcher) buildPayload(appt *domain.Appointment, customer, professional domain.Recipient, details domain.HistoryDetails) domain.NotificationPayload {
	payload := domain.NotificationPayload{
		AppointmentID:    appt.ID,
		Status:           appt.Status,
		ProfessionalName: professional.DisplayName,
		CustomerName:     customer.DisplayName,
		ServiceSummary:   serviceSummary(appt.Services),
		Date:             appt.AppointmentDate.String(),
		LocalTime:        appt.StartTime.String(),
		Timezone:         "UTC",
		QuotedPrice:      appt.QuotedPrice,
		FinalPrice:       appt.FinalPrice,
		OldPrice:         details.OldPrice,
	}
	if details.Reason != nil {
		payload.Reason = *details.Reason
	}

	localDate, localTime, err := types.UTCToLocal(appt.AppointmentDate, appt.StartTime, appt.ProfessionalTimezone)
	if err != nil {
		d.logger.Warn("Notification for appointment_id=%s uses UTC time: %v", appt.ID, err)
		return payload
	}
	payload.Date = localDate.String()
	payload.LocalTime = localTime.String()
	payload.Timezone = appt.ProfessionalTimezone

	return payload
}

func (d *Dispatcher) record(kind domain.NotificationKind, outcome string) {
	if d.metrics != nil {
		d.metrics.IncNotification(string(kind), outcome)
	}
}

func serviceSummary(services []domain.ServiceItem) string {
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}
