package domain

import (
	"strings"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilityWindow recurring weekly open hours of a professional, stored in UTC
type AvailabilityWindow struct {
	Day         string
	IsAvailable bool
	StartTime   types.TimeString
	EndTime     types.TimeString
}

// IsOpen returns true if the window can produce slots
func (w *AvailabilityWindow) IsOpen() bool {
	return w != nil && w.IsAvailable && !w.StartTime.IsZero() && !w.EndTime.IsZero()
}

// FindWindow ищет окно по названию дня недели без учета регистра
func FindWindow(windows []AvailabilityWindow, day string) *AvailabilityWindow {
	for i := range windows {
		if strings.EqualFold(windows[i].Day, day) {
			return &windows[i]
		}
	}
	return nil
}

// AvailableSlot start of a slot in UTC with its equivalent in the professional's timezone
type AvailableSlot struct {
	StartTime      types.TimeString
	LocalDate      types.Date
	LocalStartTime types.TimeString
}
