package appointment_action

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	appointmentAction "github.com/m04kA/SMC-AppointmentService/internal/usecase/appointment_action"
)

const (
	msgApplied     = "действие выполнено"
	msgNotModified = "запись уже в этом статусе"
)

// ActionRequest HTTP request model
type ActionRequest struct {
	Action     string   `json:"action"`
	FinalPrice *float64 `json:"finalPrice,omitempty"` // Только для counter
	Reason     *string  `json:"reason,omitempty"`
}

// ActionResponse HTTP response model
type ActionResponse struct {
	Message     string                      `json:"message"`
	Modified    bool                        `json:"modified"`
	Appointment *models.AppointmentResponse `json:"appointment"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ActionRequest) ToUseCaseRequest(actor domain.Identity, appointmentID string) *appointmentAction.Request {
	return &appointmentAction.Request{
		Actor:         actor,
		AppointmentID: appointmentID,
		Action:        r.Action,
		FinalPrice:    r.FinalPrice,
		Reason:        r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *appointmentAction.Response) *ActionResponse {
	msg := msgApplied
	if !resp.Modified {
		msg = msgNotModified
	}

	return &ActionResponse{
		Message:     msg,
		Modified:    resp.Modified,
		Appointment: models.FromDomainAppointment(resp.Appointment),
	}
}
