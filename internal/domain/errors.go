package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок. Пакетные ошибки слоёв оборачивают один из них,
// HTTP слой определяет код ответа через errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrAuthentication    = errors.New("authentication error")
	ErrAuthorization     = errors.New("authorization error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrTimeConversion    = errors.New("time conversion error")
	ErrConflict          = errors.New("concurrent modification")
	ErrNotModified       = errors.New("not modified")
	ErrNotification      = errors.New("notification error")
)

// ValidationError ошибка валидации конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет сравнивать с ErrValidation через errors.Is
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidTransitionError действие недопустимо из текущего статуса
type InvalidTransitionError struct {
	Action Action
	Status Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed when appointment status is %q", e.Action, e.Status)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
