package userservice

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Directory источник данных о пользователях
type Directory interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}
