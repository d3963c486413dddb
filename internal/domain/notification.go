package domain

import "time"

// Recipient адресат уведомления
type Recipient struct {
	UserID      string `json:"userId"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// NotificationPayload параметры шаблона уведомления
type NotificationPayload struct {
	AppointmentID    string   `json:"appointmentId"`
	Status           Status   `json:"status"`
	ProfessionalName string   `json:"professionalName,omitempty"`
	CustomerName     string   `json:"customerName,omitempty"`
	ServiceSummary   string   `json:"serviceSummary"`
	Date             string   `json:"date"`
	LocalTime        string   `json:"localTime"`
	Timezone         string   `json:"timezone"`
	QuotedPrice      float64  `json:"quotedPrice"`
	FinalPrice       float64  `json:"finalPrice"`
	OldPrice         *float64 `json:"oldPrice,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}

// Notification сообщение одному участнику записи
type Notification struct {
	Kind          NotificationKind
	RecipientRole Role
	Recipient     Recipient
	Payload       NotificationPayload
	OccurredAt    time.Time
}
