package get_available_slots

import (
	"strconv"
	"strings"

	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProfessionalID string          `json:"professionalId"`
	Date           string          `json:"date"`
	Timezone       string          `json:"timezone"`
	Slots          []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"` // UTC
	LocalDate      string `json:"localDate"`
	LocalStartTime string `json:"localStartTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			LocalDate:      slot.LocalDate.String(),
			LocalStartTime: slot.LocalStartTime.String(),
		}
	}

	return &AvailableSlotsResponse{
		ProfessionalID: resp.ProfessionalID,
		Date:           resp.Date.String(),
		Timezone:       resp.Timezone,
		Slots:          slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(professionalID, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	duration, err := strconv.Atoi(strings.TrimSpace(durationStr))
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ProfessionalID:  professionalID,
		Date:            strings.TrimSpace(dateStr),
		ServiceDuration: duration,
	}, nil
}
