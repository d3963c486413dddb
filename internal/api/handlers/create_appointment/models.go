package create_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model.
// appointmentDate и startTime указываются по локальным часам специалиста.
type CreateAppointmentRequest struct {
	CustomerID           string           `json:"customerId,omitempty"`
	ProfessionalID       string           `json:"professionalId"`
	Services             []ServiceRequest `json:"services"`
	TotalDuration        *int             `json:"totalDuration"`
	AppointmentDate      string           `json:"appointmentDate"` // "2026-03-02"
	StartTime            string           `json:"startTime"`       // "10:00"
	ProfessionalTimezone string           `json:"professionalTimezone"`
	QuotedPrice          *float64         `json:"quotedPrice"`
	CustomerNotes        *string          `json:"customerNotes,omitempty"`
}

// ServiceRequest услуга в запросе
type ServiceRequest struct {
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	DurationMinutes *int     `json:"durationMinutes"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Identity) *createAppointment.Request {
	services := make([]createAppointment.ServiceInput, 0, len(r.Services))
	for _, s := range r.Services {
		services = append(services, createAppointment.ServiceInput{
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return &createAppointment.Request{
		Actor:                actor,
		CustomerID:           r.CustomerID,
		ProfessionalID:       r.ProfessionalID,
		Services:             services,
		TotalDuration:        r.TotalDuration,
		AppointmentDate:      r.AppointmentDate,
		StartTime:            r.StartTime,
		ProfessionalTimezone: r.ProfessionalTimezone,
		QuotedPrice:          r.QuotedPrice,
		CustomerNotes:        r.CustomerNotes,
	}
}
