package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProfessionalID  string // ID специалиста
	Date            string // Дата (UTC) в формате YYYY-MM-DD
	ServiceDuration int    // Длительность услуги в минутах
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ProfessionalID string
	Date           types.Date
	Timezone       string                 // Таймзона специалиста для отображения
	Slots          []domain.AvailableSlot // Начала слотов в UTC по возрастанию
}
