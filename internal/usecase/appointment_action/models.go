package appointment_action

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request модель запроса на действие над записью
type Request struct {
	Actor         domain.Identity
	AppointmentID string
	Action        string
	FinalPrice    *float64 // Новая цена для counter
	Reason        *string  // Причина отказа или отмены
}

// Response модель ответа: актуальное состояние записи.
// Modified=false означает, что запись уже находилась в целевом статусе и уведомления не отправлялись.
type Response struct {
	Appointment *domain.Appointment
	Modified    bool
}
