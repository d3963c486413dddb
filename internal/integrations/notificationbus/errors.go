package notificationbus

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrEncode возвращается при ошибке сериализации уведомления
	ErrEncode = fmt.Errorf("notificationbus: failed to encode notification: %w", domain.ErrNotification)

	// ErrPublish возвращается при ошибке записи в Kafka
	ErrPublish = fmt.Errorf("notificationbus: failed to publish notification: %w", domain.ErrNotification)
)
