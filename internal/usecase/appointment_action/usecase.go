package appointment_action

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

const (
	outcomeApplied     = "applied"
	outcomeNotModified = "not_modified"
	outcomeConflict    = "conflict"
	outcomeRejected    = "rejected"
	outcomeError       = "error"
)

var tracer = otel.Tracer("appointment-service/appointment_action")

// UseCase use case для действий участников над записью
type UseCase struct {
	appointmentRepo AppointmentRepository
	dispatcher      Dispatcher
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	dispatcher Dispatcher,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		dispatcher:      dispatcher,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет действие над записью.
// Чтение, расчет перехода и условное обновление выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "AppointmentAction",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("appointment.id", req.AppointmentID),
			attribute.String("appointment.action", req.Action),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("AppointmentAction: appointment=%s, action=%s, user=%s, role=%s",
		req.AppointmentID, req.Action, req.Actor.UserID, req.Actor.Role)

	// 1. Аутентификация и формат запроса
	cmd, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("AppointmentAction: invalid request: %v", err)
		uc.record(req.Action, outcomeRejected)
		return nil, err
	}

	// 2. Расчет и сохранение перехода
	var (
		current    *domain.Appointment
		transition *domain.Transition
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}
		current = appt

		tr, err := domain.Decide(appt, req.Actor, cmd, uc.timeProvider.Now())
		if err != nil {
			return uc.mapDecideError(err)
		}
		if err := validateReason(cmd); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		transition = tr

		if err := uc.appointmentRepo.ApplyTransition(txCtx, appt, tr); err != nil {
			return err
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, appointmentRepo.ErrVersionMismatch):
		return uc.resolveVersionMismatch(ctx, req, transition)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("AppointmentAction: failed to apply %s to appointment=%s: %v", cmd.Action, req.AppointmentID, err)
		uc.record(req.Action, outcomeError)
		return nil, err
	case isKnown(err):
		uc.logger.Warn("AppointmentAction: %s rejected for appointment=%s: %v", cmd.Action, req.AppointmentID, err)
		uc.record(req.Action, outcomeRejected)
		return nil, err
	default:
		uc.logger.Error("AppointmentAction: failed to apply %s to appointment=%s: %v", cmd.Action, req.AppointmentID, err)
		uc.record(req.Action, outcomeError)
		return nil, fmt.Errorf("%w: failed to apply transition: %v", ErrInternal, err)
	}

	// 3. Перечитываем запись после коммита
	updated, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		uc.logger.Warn("AppointmentAction: failed to reload appointment=%s, using local state: %v", req.AppointmentID, err)
		current.Apply(transition)
		updated = current
	}

	span.SetAttributes(attribute.String("appointment.status", string(transition.To)))
	uc.logger.Info("AppointmentAction: appointment=%s moved %s -> %s by %s",
		req.AppointmentID, transition.From, transition.To, req.Actor.UserID)
	uc.record(req.Action, outcomeApplied)

	// 4. Уведомления не влияют на результат
	uc.dispatcher.TransitionApplied(ctx, updated, transition)

	return &Response{Appointment: updated, Modified: true}, nil
}

// resolveVersionMismatch разбирает проигранную гонку: повтор того же перехода не является ошибкой
func (uc *UseCase) resolveVersionMismatch(ctx context.Context, req *Request, tr *domain.Transition) (*Response, error) {
	latest, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.record(req.Action, outcomeRejected)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("AppointmentAction: failed to reload appointment=%s after conflict: %v", req.AppointmentID, err)
		uc.record(req.Action, outcomeError)
		return nil, fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
	}

	if sameOutcome(latest, tr) {
		uc.logger.Info("AppointmentAction: appointment=%s already in status %s", req.AppointmentID, tr.To)
		uc.record(req.Action, outcomeNotModified)
		return &Response{Appointment: latest, Modified: false}, nil
	}

	uc.logger.Warn("AppointmentAction: appointment=%s changed concurrently to %s", req.AppointmentID, latest.Status)
	uc.record(req.Action, outcomeConflict)
	return nil, ErrConflict
}

// sameOutcome возвращает true, если сохраненное состояние совпадает с тем, что записал бы переход
func sameOutcome(latest *domain.Appointment, tr *domain.Transition) bool {
	if latest.Status != tr.To {
		return false
	}
	if domain.PriceCents(latest.FinalPrice) != domain.PriceCents(tr.FinalPrice) {
		return false
	}
	if len(latest.History) == 0 {
		return false
	}
	last := latest.History[len(latest.History)-1]
	return last.ActionType == tr.Entry.ActionType && last.UserID == tr.Entry.UserID
}

func (uc *UseCase) mapDecideError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthentication):
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	case errors.Is(err, domain.ErrAuthorization):
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	case errors.Is(err, domain.ErrValidation):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Errorf("appointment_action: %w", err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// record пишет метрику; неизвестные действия не попадают в метки
func (uc *UseCase) record(action, outcome string) {
	if _, err := domain.ParseAction(action); err != nil {
		action = "unknown"
	}
	if uc.metrics != nil {
		uc.metrics.IncTransition(action, outcome)
	}
}

// isKnown возвращает true для ошибок, которые уже отнесены к одному из видов
func isKnown(err error) bool {
	for _, kind := range []error{
		domain.ErrValidation,
		domain.ErrAuthentication,
		domain.ErrAuthorization,
		domain.ErrNotFound,
		domain.ErrInvalidTransition,
		ErrInternal,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
