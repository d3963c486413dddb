package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_appointment: %w", domain.ErrValidation)

	// ErrUnauthenticated возвращается, если пользователь не определен
	ErrUnauthenticated = fmt.Errorf("create_appointment: %w", domain.ErrAuthentication)

	// ErrForbidden возвращается, когда запись создает не клиент или от имени другого клиента
	ErrForbidden = fmt.Errorf("create_appointment: only the customer can request an appointment for themselves: %w", domain.ErrAuthorization)

	// ErrTimeConversion возвращается, когда локальное время нельзя перевести в UTC
	ErrTimeConversion = fmt.Errorf("create_appointment: %w", domain.ErrTimeConversion)

	// ErrSlotTaken возвращается, когда время пересекается с активной записью специалиста
	ErrSlotTaken = fmt.Errorf("create_appointment: the professional already has an appointment at this time: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
