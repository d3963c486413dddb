package create_appointment

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request модель запроса на создание записи.
// Дата и время указываются по локальным часам специалиста.
// Числовые поля передаются указателями, чтобы отличать отсутствие значения от нуля.
type Request struct {
	Actor                domain.Identity
	CustomerID           string
	ProfessionalID       string
	Services             []ServiceInput
	TotalDuration        *int
	AppointmentDate      string
	StartTime            string
	ProfessionalTimezone string
	QuotedPrice          *float64
	CustomerNotes        *string
}

// ServiceInput услуга из запроса
type ServiceInput struct {
	Name            string
	Price           *float64
	DurationMinutes *int
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
