package domain

// User запись справочника пользователей (только чтение)
type User struct {
	ID                   string
	Role                 Role
	Email                string
	DisplayName          string
	ProfessionalTimezone string
	AvailabilityWindows  []AvailabilityWindow
}

// IsProfessional returns true if the user can receive appointments
func (u *User) IsProfessional() bool {
	return u.Role == RoleProfessional
}
