package domain

// Business validation constants
const (
	MaxServicesPerAppointment = 20
	MaxServiceNameLength      = 200
	MaxCustomerNotesLength    = 1000
	MaxReasonLength           = 500
	MaxDurationMinutes        = 24 * 60
)

// Slot generation defaults
const (
	DefaultSlotStepMinutes = 15
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
