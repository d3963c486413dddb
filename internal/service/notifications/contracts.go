package notifications

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Notifier канал доставки уведомлений
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

// UserDirectory справочник пользователей для имен и адресов получателей
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// MetricsRecorder счетчик отправленных уведомлений
type MetricsRecorder interface {
	IncNotification(kind, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
