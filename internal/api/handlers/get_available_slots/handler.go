package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate         = "дата обязательна"
	msgMissingDuration     = "длительность услуги обязательна"
	msgInvalidDuration     = "длительность услуги должна быть целым числом минут"
	msgProfessionalMissing = "специалист не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/available-slots
// Query params: date (required, YYYY-MM-DD, UTC), serviceDuration (required, minutes)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID := mux.Vars(r)["professionalId"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /professionals/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	durationStr := r.URL.Query().Get("serviceDuration")
	if durationStr == "" {
		h.logger.Warn("GET /professionals/{id}/available-slots - Missing service duration")
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	useCaseReq, err := ToUseCaseRequest(professionalID, dateStr, durationStr)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/available-slots - Invalid service duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrProfessionalNotFound):
			h.logger.Warn("GET /professionals/{id}/available-slots - Professional not found: professional_id=%s", professionalID)
			handlers.RespondNotFound(w, msgProfessionalMissing)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /professionals/{id}/available-slots - Invalid request: professional_id=%s, error=%v", professionalID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("GET /professionals/{id}/available-slots - Failed to get slots: professional_id=%s, date=%s, error=%v",
				professionalID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/available-slots - Slots retrieved successfully: professional_id=%s, date=%s, slots_count=%d",
		professionalID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
