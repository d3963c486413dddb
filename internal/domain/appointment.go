package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Status статус записи на консультацию
type Status string

const (
	StatusPendingProfessionalApproval Status = "pending_professional_approval"
	StatusConfirmed                   Status = "confirmed"
	StatusCounteredByProfessional     Status = "countered_by_professional"
	StatusRejectedByProfessional      Status = "rejected_by_professional"
	StatusRejectedByCustomer          Status = "rejected_by_customer"
	StatusCancelledByCustomer         Status = "cancelled_by_customer"
	StatusCancelledByProfessional     Status = "cancelled_by_professional"
	StatusCompleted                   Status = "completed"
)

// AllStatuses все статусы в порядке жизненного цикла
var AllStatuses = []Status{
	StatusPendingProfessionalApproval,
	StatusCounteredByProfessional,
	StatusConfirmed,
	StatusRejectedByProfessional,
	StatusRejectedByCustomer,
	StatusCancelledByCustomer,
	StatusCancelledByProfessional,
	StatusCompleted,
}

// ActiveStatuses статусы, занимающие время специалиста
var ActiveStatuses = []Status{
	StatusPendingProfessionalApproval,
	StatusCounteredByProfessional,
	StatusConfirmed,
}

// Valid returns true for a known status
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no action can leave this status
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejectedByProfessional,
		StatusRejectedByCustomer,
		StatusCancelledByCustomer,
		StatusCancelledByProfessional,
		StatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive returns true if the appointment still occupies the professional's time
func (s Status) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// ParseStatus конвертирует строку в Status с валидацией
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", NewValidationError("status", "unknown status "+s)
	}
	return status, nil
}

// Role роль участника записи
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleProfessional Role = "professional"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleProfessional
}

// Identity аутентифицированный пользователь
type Identity struct {
	UserID string
	Role   Role
}

// ServiceItem услуга в составе записи
type ServiceItem struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// HistoryActionType тип записи в истории
type HistoryActionType string

const (
	HistoryCreated                 HistoryActionType = "created_appointment_request"
	HistoryConfirmed               HistoryActionType = "confirmed_appointment"
	HistoryRejected                HistoryActionType = "rejected_appointment"
	HistoryCountered               HistoryActionType = "countered_price"
	HistoryAcceptedCounter         HistoryActionType = "accepted_counter_offer"
	HistoryRejectedCounter         HistoryActionType = "rejected_counter_offer"
	HistoryCancelledByCustomer     HistoryActionType = "cancelled_by_customer"
	HistoryCancelledByProfessional HistoryActionType = "cancelled_by_professional"
	HistoryCompleted               HistoryActionType = "completed_appointment"
)

// HistoryDetails полезная нагрузка записи истории, набор полей зависит от действия
type HistoryDetails struct {
	Reason          *string       `json:"reason,omitempty"`
	OldPrice        *float64      `json:"oldPrice,omitempty"`
	NewPrice        *float64      `json:"newPrice,omitempty"`
	FinalPrice      *float64      `json:"finalPrice,omitempty"`
	Services        []ServiceItem `json:"services,omitempty"`
	QuotedPrice     *float64      `json:"quotedPrice,omitempty"`
	AppointmentDate string        `json:"appointmentDate,omitempty"`
	StartTime       string        `json:"startTime,omitempty"`
}

// HistoryEntry запись журнала действий (журнал только дополняется)
type HistoryEntry struct {
	Timestamp  time.Time
	ActionBy   Role
	UserID     string
	ActionType HistoryActionType
	Details    HistoryDetails
}

// Appointment запись клиента к специалисту
type Appointment struct {
	ID             string
	CustomerID     string
	ProfessionalID string

	// Дата и время начала/окончания хранятся в UTC
	AppointmentDate      types.Date
	StartTime            types.TimeString
	EndTime              types.TimeString
	EndDate              types.Date
	ProfessionalTimezone string

	QuotedPrice float64
	FinalPrice  float64

	Services      []ServiceItem
	TotalDuration int
	CustomerNotes *string

	Status  Status
	History []HistoryEntry
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsParty returns true if the user is the customer or the professional of the appointment
func (a *Appointment) IsParty(userID string) bool {
	return userID != "" && (a.CustomerID == userID || a.ProfessionalID == userID)
}

// PartyID возвращает ID участника с указанной ролью
func (a *Appointment) PartyID(role Role) string {
	switch role {
	case RoleCustomer:
		return a.CustomerID
	case RoleProfessional:
		return a.ProfessionalID
	default:
		return ""
	}
}

// StartsAt момент начала записи в UTC
func (a *Appointment) StartsAt() time.Time {
	minutes, _ := a.StartTime.Minutes()
	return a.AppointmentDate.Time().Add(time.Duration(minutes) * time.Minute)
}

// EndsAt момент окончания записи в UTC
func (a *Appointment) EndsAt() time.Time {
	if a.EndDate.IsZero() {
		return a.StartsAt().Add(time.Duration(a.TotalDuration) * time.Minute)
	}
	minutes, _ := a.EndTime.Minutes()
	return a.EndDate.Time().Add(time.Duration(minutes) * time.Minute)
}

// Overlaps проверяет пересечение с полуинтервалом [start, end)
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartsAt().Before(end) && start.Before(a.EndsAt())
}

// Apply применяет рассчитанный переход к записи
func (a *Appointment) Apply(t *Transition) {
	a.Status = t.To
	a.FinalPrice = t.FinalPrice
	a.History = append(a.History, t.Entry)
	a.Version++
	a.UpdatedAt = t.Entry.Timestamp
}

// ListFilter фильтр списка записей участника
type ListFilter struct {
	UserID string
	Role   Role
	Status *Status
}
