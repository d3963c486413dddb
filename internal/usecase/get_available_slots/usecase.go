package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	userDirectory   UserDirectory
	timeProvider    TimeProvider
	stepMinutes     int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case; stepMinutes шаг сетки слотов
func NewUseCase(
	appointmentRepo AppointmentRepository,
	userDirectory UserDirectory,
	stepMinutes int,
	logger Logger,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		userDirectory:   userDirectory,
		timeProvider:    &RealTimeProvider{},
		stepMinutes:     stepMinutes,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%s, date=%s, duration=%d",
		req.ProfessionalID, req.Date, req.ServiceDuration)

	// 1. Валидация входных данных
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 2. Получаем специалиста
	professional, err := uc.userDirectory.GetUser(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%s not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%s: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.IsProfessional() {
		uc.logger.Warn("GetAvailableSlots: user id=%s is not a professional", req.ProfessionalID)
		return nil, ErrProfessionalNotFound
	}

	response := &Response{
		ProfessionalID: professional.ID,
		Date:           date,
		Timezone:       professional.ProfessionalTimezone,
		Slots:          []domain.AvailableSlot{},
	}

	// 3. Окно доступности на день недели
	weekday, err := types.DayOfWeekName(date.String())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve weekday: %v", ErrInternal, err)
	}

	window := domain.FindWindow(professional.AvailabilityWindows, weekday)
	if !window.IsOpen() {
		uc.logger.Info("GetAvailableSlots: professional=%s is not available on %s", req.ProfessionalID, weekday)
		return response, nil
	}

	// 4. Генерируем кандидатов
	offsets, err := generateSlots(window, req.ServiceDuration, uc.stepMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: broken availability window for professional=%s: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	if len(offsets) == 0 {
		return response, nil
	}

	// 5. Активные записи, которые могут пересечься с кандидатами (включая переход через полночь)
	dates := []types.Date{date.AddDays(-1), date, date.AddDays(1)}
	busy, err := uc.appointmentRepo.ListActiveByProfessional(ctx, professional.ID, dates)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	slots, conversionErrs := buildSlots(date, offsets, req.ServiceDuration, busy, uc.timeProvider.Now(), professional.ProfessionalTimezone)
	if len(conversionErrs) > 0 {
		uc.logger.Warn("GetAvailableSlots: local time unavailable for %d slots of professional=%s: %v",
			len(conversionErrs), req.ProfessionalID, conversionErrs[0])
	}
	response.Slots = slots

	uc.logger.Info("GetAvailableSlots: generated %d slots for professional=%s, date=%s",
		len(slots), req.ProfessionalID, date)

	return response, nil
}
