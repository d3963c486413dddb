package appointment_action

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointment_action: appointment not found: %w", domain.ErrNotFound)

	// ErrUnauthenticated возвращается, если пользователь не определен
	ErrUnauthenticated = fmt.Errorf("appointment_action: %w", domain.ErrAuthentication)

	// ErrForbidden возвращается, когда действие выполняет не тот участник
	ErrForbidden = fmt.Errorf("appointment_action: %w", domain.ErrAuthorization)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("appointment_action: %w", domain.ErrValidation)

	// ErrConflict возвращается, когда запись изменили параллельно
	ErrConflict = fmt.Errorf("appointment_action: appointment was modified concurrently: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("appointment_action: internal error")
)
