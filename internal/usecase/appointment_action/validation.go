package appointment_action

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// validateRequest проверяет формат запроса; права и статус проверяются в domain.Decide
func validateRequest(req *Request) (domain.Command, error) {
	if req.Actor.UserID == "" {
		return domain.Command{}, ErrUnauthenticated
	}

	if strings.TrimSpace(req.AppointmentID) == "" {
		return domain.Command{}, fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("appointmentId", "is required"))
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		return domain.Command{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return domain.Command{
		Action:     action,
		FinalPrice: req.FinalPrice,
		Reason:     strings.TrimSpace(ptr.Value(req.Reason)),
	}, nil
}

// validateReason проверяет длину причины; вызывается после проверки прав и статуса
func validateReason(cmd domain.Command) error {
	if utf8.RuneCountInString(cmd.Reason) > domain.MaxReasonLength {
		return domain.NewValidationError("reason",
			fmt.Sprintf("must be at most %d characters", domain.MaxReasonLength))
	}
	return nil
}
