package notificationbus

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Envelope сообщение в топике уведомлений
type Envelope struct {
	EventID       string                     `json:"event_id"`
	TemplateKind  domain.NotificationKind    `json:"template_kind"`
	RecipientRole domain.Role                `json:"recipient_role"`
	Recipient     domain.Recipient           `json:"recipient"`
	Payload       domain.NotificationPayload `json:"payload"`
	OccurredAt    time.Time                  `json:"occurred_at"`
}
