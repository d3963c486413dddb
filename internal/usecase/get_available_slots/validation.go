package get_available_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (types.Date, error) {
	if strings.TrimSpace(req.ProfessionalID) == "" {
		return types.Date{}, domain.NewValidationError("professionalId", "is required")
	}

	if req.Date == "" {
		return types.Date{}, domain.NewValidationError("date", "is required")
	}
	date, err := types.ParseDate(req.Date)
	if err != nil {
		return types.Date{}, domain.NewValidationError("date", "must match YYYY-MM-DD")
	}

	if req.ServiceDuration <= 0 || req.ServiceDuration > domain.MaxDurationMinutes {
		return types.Date{}, domain.NewValidationError("serviceDuration",
			fmt.Sprintf("must be between 1 and %d minutes", domain.MaxDurationMinutes))
	}

	return date, nil
}
