package userservice

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// User модель пользователя из UserService
type User struct {
	ID                   string               `json:"id"`
	Role                 string               `json:"role"`
	Email                string               `json:"email"`
	DisplayName          string               `json:"displayName"`
	ProfessionalTimezone string               `json:"professionalTimezone,omitempty"`
	Availability         []AvailabilityWindow `json:"availability,omitempty"`
}

// AvailabilityWindow окно доступности специалиста (время в UTC)
type AvailabilityWindow struct {
	Day         string `json:"day"`
	IsAvailable bool   `json:"isAvailable"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toDomain конвертирует ответ справочника в доменную модель.
// Окно с некорректным временем считается закрытым.
func (u *User) toDomain() (*domain.User, error) {
	role := domain.Role(u.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q for user %s", ErrInvalidResponse, u.Role, u.ID)
	}

	windows := make([]domain.AvailabilityWindow, 0, len(u.Availability))
	for _, w := range u.Availability {
		window := domain.AvailabilityWindow{Day: w.Day, IsAvailable: w.IsAvailable}
		if start, err := types.NewTimeStringFromString(w.StartTime); err == nil {
			window.StartTime = start
		}
		if end, err := types.NewTimeStringFromString(w.EndTime); err == nil {
			window.EndTime = end
		}
		windows = append(windows, window)
	}

	return &domain.User{
		ID:                   u.ID,
		Role:                 role,
		Email:                u.Email,
		DisplayName:          u.DisplayName,
		ProfessionalTimezone: u.ProfessionalTimezone,
		AvailabilityWindows:  windows,
	}, nil
}

func fromDomain(u *domain.User) *User {
	windows := make([]AvailabilityWindow, 0, len(u.AvailabilityWindows))
	for _, w := range u.AvailabilityWindows {
		windows = append(windows, AvailabilityWindow{
			Day:         w.Day,
			IsAvailable: w.IsAvailable,
			StartTime:   w.StartTime.String(),
			EndTime:     w.EndTime.String(),
		})
	}
	return &User{
		ID:                   u.ID,
		Role:                 string(u.Role),
		Email:                u.Email,
		DisplayName:          u.DisplayName,
		ProfessionalTimezone: u.ProfessionalTimezone,
		Availability:         windows,
	}
}
