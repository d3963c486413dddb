package get_my_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgMissingIdentity = "пользователь не определен"
	msgInvalidStatus   = "некорректный статус записи"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/mine
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/mine - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	list, err := h.service.ListMine(r.Context(), identity, status)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments/mine - Invalid status: user_id=%s, status=%v", identity.UserID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointments.ErrUnauthenticated):
			h.logger.Warn("GET /appointments/mine - Unknown role: user_id=%s, role=%s", identity.UserID, identity.Role)
			handlers.RespondUnauthorized(w, msgMissingIdentity)

		default:
			h.logger.Error("GET /appointments/mine - Failed to list appointments: user_id=%s, error=%v", identity.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/mine - Appointments retrieved successfully: user_id=%s, count=%d",
		identity.UserID, len(list.Appointments))
	handlers.RespondJSON(w, http.StatusOK, list)
}
