package appointment_action

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	appointmentAction "github.com/m04kA/SMC-AppointmentService/internal/usecase/appointment_action"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "пользователь не определен"
	msgNotFound           = "запись не найдена"
	msgConflict           = "запись была изменена параллельно, обновите данные и повторите"
)

type Handler struct {
	useCase AppointmentActionUseCase
	logger  Logger
}

func NewHandler(useCase AppointmentActionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}/action
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id}/action - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req ActionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id}/action - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(identity, appointmentID))
	if err != nil {
		switch {
		case errors.Is(err, appointmentAction.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id}/action - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointmentAction.ErrConflict):
			h.logger.Warn("PUT /appointments/{id}/action - Concurrent modification: appointment_id=%s, action=%s",
				appointmentID, req.Action)
			handlers.RespondError(w, http.StatusConflict, msgConflict)

		case handlers.IsClientError(err):
			h.logger.Warn("PUT /appointments/{id}/action - Action rejected: appointment_id=%s, action=%s, user_id=%s, error=%v",
				appointmentID, req.Action, identity.UserID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("PUT /appointments/{id}/action - Failed to apply action: appointment_id=%s, action=%s, error=%v",
				appointmentID, req.Action, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id}/action - Action %s processed: appointment_id=%s, status=%s, modified=%t",
		req.Action, appointmentID, result.Appointment.Status, result.Modified)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
