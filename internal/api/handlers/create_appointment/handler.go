package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "пользователь не определен"
	msgSlotTaken          = "у специалиста уже есть запись на это время"
	msgForbidden          = "записаться может только сам клиент"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(identity))
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotTaken):
			h.logger.Warn("POST /appointments - Slot taken: professional_id=%s, date=%s, time=%s",
				req.ProfessionalID, req.AppointmentDate, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createAppointment.ErrForbidden):
			h.logger.Warn("POST /appointments - Forbidden: user_id=%s, role=%s", identity.UserID, identity.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case handlers.IsClientError(err):
			h.logger.Warn("POST /appointments - Request rejected: user_id=%s, professional_id=%s, error=%v",
				identity.UserID, req.ProfessionalID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%s, professional_id=%s, error=%v",
				identity.UserID, req.ProfessionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s, customer_id=%s, professional_id=%s",
		result.Appointment.ID, result.Appointment.CustomerID, result.Appointment.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(result.Appointment))
}
