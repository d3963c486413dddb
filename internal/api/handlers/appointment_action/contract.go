package appointment_action

import (
	"context"

	appointmentAction "github.com/m04kA/SMC-AppointmentService/internal/usecase/appointment_action"
)

type AppointmentActionUseCase interface {
	Execute(ctx context.Context, req *appointmentAction.Request) (*appointmentAction.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
