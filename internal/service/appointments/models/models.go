package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ServiceResponse услуга в составе записи
type ServiceResponse struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// HistoryResponse запись журнала действий
type HistoryResponse struct {
	Timestamp  time.Time             `json:"timestamp"`
	ActionBy   string                `json:"actionBy"`
	UserID     string                `json:"userId"`
	ActionType string                `json:"actionType"`
	Details    domain.HistoryDetails `json:"details"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customerId"`
	ProfessionalID string `json:"professionalId"`

	AppointmentDate      string `json:"appointmentDate"` // UTC, "2026-03-02"
	StartTime            string `json:"startTime"`       // UTC, "15:00"
	EndDate              string `json:"endDate"`
	EndTime              string `json:"endTime"`
	ProfessionalTimezone string `json:"professionalTimezone"`

	// Время начала по часам специалиста, пусто если зону не удалось применить
	LocalDate      string `json:"localDate,omitempty"`
	LocalStartTime string `json:"localStartTime,omitempty"`

	QuotedPrice   float64           `json:"quotedPrice"`
	FinalPrice    float64           `json:"finalPrice"`
	Services      []ServiceResponse `json:"services"`
	TotalDuration int               `json:"totalDuration"`
	CustomerNotes *string           `json:"customerNotes,omitempty"`

	Status  string            `json:"status"`
	History []HistoryResponse `json:"history"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                   a.ID,
		CustomerID:           a.CustomerID,
		ProfessionalID:       a.ProfessionalID,
		AppointmentDate:      a.AppointmentDate.String(),
		StartTime:            a.StartTime.String(),
		EndDate:              a.EndDate.String(),
		EndTime:              a.EndTime.String(),
		ProfessionalTimezone: a.ProfessionalTimezone,
		QuotedPrice:          a.QuotedPrice,
		FinalPrice:           a.FinalPrice,
		Services:             make([]ServiceResponse, 0, len(a.Services)),
		TotalDuration:        a.TotalDuration,
		CustomerNotes:        a.CustomerNotes,
		Status:               string(a.Status),
		History:              make([]HistoryResponse, 0, len(a.History)),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}

	if localDate, localTime, err := types.UTCToLocal(a.AppointmentDate, a.StartTime, a.ProfessionalTimezone); err == nil {
		resp.LocalDate = localDate.String()
		resp.LocalStartTime = localTime.String()
	}

	for _, s := range a.Services {
		resp.Services = append(resp.Services, ServiceResponse{
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	for _, h := range a.History {
		resp.History = append(resp.History, HistoryResponse{
			Timestamp:  h.Timestamp,
			ActionBy:   string(h.ActionBy),
			UserID:     h.UserID,
			ActionType: string(h.ActionType),
			Details:    h.Details,
		})
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appts)),
	}

	for _, a := range appts {
		if a == nil {
			continue
		}
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}

	return resp
}
