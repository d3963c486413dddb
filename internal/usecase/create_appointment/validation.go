package create_appointment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validated проверенные и приведенные к доменным типам данные запроса
type validated struct {
	customerID     string
	professionalID string
	date           types.Date
	startTime      types.TimeString
	timezone       string
	services       []domain.ServiceItem
	totalDuration  int
	quotedPrice    float64
	notes          *string
}

// authorize проверяет, что запись создает сам клиент
func authorize(req *Request) error {
	if req.Actor.UserID == "" {
		return ErrUnauthenticated
	}
	if req.Actor.Role != domain.RoleCustomer {
		return ErrForbidden
	}
	if req.CustomerID != "" && req.CustomerID != req.Actor.UserID {
		return ErrForbidden
	}
	return nil
}

// validateRequest валидирует входные данные запроса, ошибка указывает на первое некорректное поле
func validateRequest(req *Request) (*validated, error) {
	v := &validated{
		customerID:     req.Actor.UserID,
		professionalID: strings.TrimSpace(req.ProfessionalID),
		timezone:       strings.TrimSpace(req.ProfessionalTimezone),
	}

	if v.professionalID == "" {
		return nil, domain.NewValidationError("professionalId", "is required")
	}
	if v.professionalID == v.customerID {
		return nil, domain.NewValidationError("professionalId", "must differ from customerId")
	}

	services, sum, err := validateServices(req.Services)
	if err != nil {
		return nil, err
	}
	v.services = services

	if req.TotalDuration == nil {
		return nil, domain.NewValidationError("totalDuration", "is required")
	}
	if *req.TotalDuration <= 0 || *req.TotalDuration > domain.MaxDurationMinutes {
		return nil, domain.NewValidationError("totalDuration",
			fmt.Sprintf("must be between 1 and %d minutes", domain.MaxDurationMinutes))
	}
	if *req.TotalDuration != sum {
		return nil, domain.NewValidationError("totalDuration",
			fmt.Sprintf("must equal the sum of service durations (%d)", sum))
	}
	v.totalDuration = *req.TotalDuration

	if req.AppointmentDate == "" {
		return nil, domain.NewValidationError("appointmentDate", "is required")
	}
	date, err := types.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, domain.NewValidationError("appointmentDate", "must match YYYY-MM-DD")
	}
	v.date = date

	if req.StartTime == "" {
		return nil, domain.NewValidationError("startTime", "is required")
	}
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, domain.NewValidationError("startTime", "must match HH:MM in 24-hour format")
	}
	v.startTime = start

	if v.timezone == "" {
		return nil, domain.NewValidationError("professionalTimezone", "is required")
	}

	if req.QuotedPrice == nil {
		return nil, domain.NewValidationError("quotedPrice", "is required")
	}
	quoted, err := domain.NormalizePrice("quotedPrice", *req.QuotedPrice)
	if err != nil {
		return nil, err
	}
	v.quotedPrice = quoted

	if req.CustomerNotes != nil {
		if utf8.RuneCountInString(*req.CustomerNotes) > domain.MaxCustomerNotesLength {
			return nil, domain.NewValidationError("customerNotes",
				fmt.Sprintf("must be at most %d characters", domain.MaxCustomerNotesLength))
		}
		if strings.TrimSpace(*req.CustomerNotes) != "" {
			v.notes = req.CustomerNotes
		}
	}

	return v, nil
}

func validateServices(inputs []ServiceInput) ([]domain.ServiceItem, int, error) {
	if len(inputs) == 0 {
		return nil, 0, domain.NewValidationError("services", "must contain at least one service")
	}
	if len(inputs) > domain.MaxServicesPerAppointment {
		return nil, 0, domain.NewValidationError("services",
			fmt.Sprintf("must contain at most %d services", domain.MaxServicesPerAppointment))
	}

	services := make([]domain.ServiceItem, 0, len(inputs))
	sum := 0
	for i, in := range inputs {
		field := fmt.Sprintf("services[%d]", i)

		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, 0, domain.NewValidationError(field+".name", "is required")
		}
		if utf8.RuneCountInString(name) > domain.MaxServiceNameLength {
			return nil, 0, domain.NewValidationError(field+".name",
				fmt.Sprintf("must be at most %d characters", domain.MaxServiceNameLength))
		}
		if in.Price == nil {
			return nil, 0, domain.NewValidationError(field+".price", "is required")
		}
		price, err := domain.NormalizePrice(field+".price", *in.Price)
		if err != nil {
			return nil, 0, err
		}
		if in.DurationMinutes == nil || *in.DurationMinutes <= 0 || *in.DurationMinutes > domain.MaxDurationMinutes {
			return nil, 0, domain.NewValidationError(field+".durationMinutes",
				fmt.Sprintf("must be between 1 and %d minutes", domain.MaxDurationMinutes))
		}

		sum += *in.DurationMinutes
		services = append(services, domain.ServiceItem{
			Name:            name,
			Price:           price,
			DurationMinutes: *in.DurationMinutes,
		})
	}

	return services, sum, nil
}

// findOverlap возвращает первую активную запись, пересекающую новую
func findOverlap(appt *domain.Appointment, existing []*domain.Appointment) *domain.Appointment {
	start, end := appt.StartsAt(), appt.EndsAt()
	for _, other := range existing {
		if other.ID == appt.ID || !other.Status.IsActive() {
			continue
		}
		if other.Overlaps(start, end) {
			return other
		}
	}
	return nil
}
