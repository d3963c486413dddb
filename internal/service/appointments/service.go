package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис чтения записей
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видят только клиент и специалист этой записи.
func (s *Service) GetByID(ctx context.Context, id string, identity domain.Identity) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, identity.UserID)

	if identity.UserID == "" {
		return nil, ErrUnauthenticated
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appt.PartyID(identity.Role) != identity.UserID {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", identity.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%s", id)
	return models.FromDomainAppointment(appt), nil
}

// ListMine получает записи пользователя в его роли.
// Опционально фильтрует по статусу.
func (s *Service) ListMine(ctx context.Context, identity domain.Identity, status *string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListMine: fetching appointments for user=%s, role=%s, status=%v", identity.UserID, identity.Role, status)

	if identity.UserID == "" || !identity.Role.Valid() {
		return nil, ErrUnauthenticated
	}

	filter := domain.ListFilter{UserID: identity.UserID, Role: identity.Role}
	if status != nil && *status != "" {
		parsed, err := domain.ParseStatus(*status)
		if err != nil {
			s.logger.Warn("ListMine: invalid status=%s for user=%s", *status, identity.UserID)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		filter.Status = &parsed
	}

	appts, err := s.appointmentRepo.ListByParty(ctx, filter)
	if err != nil {
		s.logger.Error("ListMine: repository error for user=%s: %v", identity.UserID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMine: successfully fetched %d appointments for user=%s", len(appts), identity.UserID)
	return models.FromDomainAppointmentList(appts), nil
}
