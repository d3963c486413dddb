package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointments: appointment not found: %w", domain.ErrNotFound)

	// ErrUnauthenticated возвращается, если пользователь не определен
	ErrUnauthenticated = fmt.Errorf("appointments: %w", domain.ErrAuthentication)

	// ErrAccessDenied возвращается, когда пользователь не участник записи
	ErrAccessDenied = fmt.Errorf("appointments: access denied: %w", domain.ErrAuthorization)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("appointments: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
