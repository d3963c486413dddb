package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	userDirectory   UserDirectory
	dispatcher      Dispatcher
	txManager       TransactionManager
	timeProvider    TimeProvider
	idGenerator     IDGenerator
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	userDirectory UserDirectory,
	dispatcher Dispatcher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		userDirectory:   userDirectory,
		dispatcher:      dispatcher,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		idGenerator:     uuidGenerator{},
		logger:          logger,
	}
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Execute выполняет use case создания записи
// Проверка пересечений и вставка выполняются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%s, professional=%s, date=%s, time=%s, tz=%s",
		req.Actor.UserID, req.ProfessionalID, req.AppointmentDate, req.StartTime, req.ProfessionalTimezone)

	// 1. Авторизация
	if err := authorize(req); err != nil {
		uc.logger.Warn("CreateAppointment: authorization failed for user=%s: %v", req.Actor.UserID, err)
		return nil, err
	}

	// 2. Валидация входных данных
	v, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 3. Проверяем специалиста в справочнике
	if err := uc.checkProfessional(ctx, v); err != nil {
		return nil, err
	}

	// 4. Переводим локальное время специалиста в UTC
	utcDate, utcStart, err := types.LocalToUTC(v.date, v.startTime, v.timezone)
	if err != nil {
		uc.logger.Warn("CreateAppointment: failed to convert %s %s %s to UTC: %v", v.date, v.startTime, v.timezone, err)
		return nil, fmt.Errorf("%w: %v", ErrTimeConversion, err)
	}

	endDate, endTime, err := types.AddMinutesUTCWithCarry(utcDate, utcStart, v.totalDuration)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to compute end time: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrTimeConversion, err)
	}

	// 5. Собираем запись
	appt := uc.buildAppointment(v, utcDate, utcStart, endDate, endTime)

	// 6. Проверяем пересечения и сохраняем в транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		dates := []types.Date{utcDate.AddDays(-1), utcDate, utcDate.AddDays(1)}
		existing, err := uc.appointmentRepo.ListActiveByProfessional(txCtx, v.professionalID, dates)
		if err != nil {
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to get active appointments: %v", err)
			return fmt.Errorf("%w: failed to get active appointments: %v", ErrInternal, err)
		}

		if other := findOverlap(appt, existing); other != nil {
			uc.logger.Warn("CreateAppointment: overlaps appointment id=%s of professional=%s", other.ID, v.professionalID)
			return ErrSlotTaken
		}

		if err := uc.appointmentRepo.Create(txCtx, appt); err != nil {
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		// Параллельная транзакция заняла то же время
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateAppointment: concurrent booking for professional=%s: %v", v.professionalID, err)
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s (UTC %s %s)", appt.ID, utcDate, utcStart)

	// 7. Уведомления не влияют на результат
	uc.dispatcher.AppointmentCreated(ctx, appt)

	return &Response{Appointment: appt}, nil
}

func (uc *UseCase) checkProfessional(ctx context.Context, v *validated) error {
	professional, err := uc.userDirectory.GetUser(ctx, v.professionalID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: professional id=%s not found", v.professionalID)
			return fmt.Errorf("%w: %w", ErrInvalidInput,
				domain.NewValidationError("professionalId", "does not reference an existing user"))
		}
		uc.logger.Error("CreateAppointment: failed to get professional id=%s: %v", v.professionalID, err)
		return fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if !professional.IsProfessional() {
		uc.logger.Warn("CreateAppointment: user id=%s is not a professional", v.professionalID)
		return fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("professionalId", "does not reference a professional"))
	}

	if professional.ProfessionalTimezone != "" && professional.ProfessionalTimezone != v.timezone {
		uc.logger.Warn("CreateAppointment: timezone %s differs from professional timezone %s",
			v.timezone, professional.ProfessionalTimezone)
		return fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("professionalTimezone", "does not match the professional's timezone"))
	}

	return nil
}

func (uc *UseCase) buildAppointment(
	v *validated,
	utcDate types.Date,
	utcStart types.TimeString,
	endDate types.Date,
	endTime types.TimeString,
) *domain.Appointment {
	now := uc.timeProvider.Now().UTC()
	quoted := v.quotedPrice

	return &domain.Appointment{
		ID:                   uc.idGenerator.NewID(),
		CustomerID:           v.customerID,
		ProfessionalID:       v.professionalID,
		AppointmentDate:      utcDate,
		StartTime:            utcStart,
		EndDate:              endDate,
		EndTime:              endTime,
		ProfessionalTimezone: v.timezone,
		QuotedPrice:          v.quotedPrice,
		FinalPrice:           v.quotedPrice,
		Services:             v.services,
		TotalDuration:        v.totalDuration,
		CustomerNotes:        v.notes,
		Status:               domain.StatusPendingProfessionalApproval,
		History: []domain.HistoryEntry{{
			Timestamp:  now,
			ActionBy:   domain.RoleCustomer,
			UserID:     v.customerID,
			ActionType: domain.HistoryCreated,
			Details: domain.HistoryDetails{
				Services:        v.services,
				QuotedPrice:     &quoted,
				AppointmentDate: utcDate.String(),
				StartTime:       utcStart.String(),
			},
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
