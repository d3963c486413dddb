package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// MaxBodyBytes ограничение размера тела запроса
const MaxBodyBytes = 1 << 20

const (
	KindValidation        = "validation"
	KindAuthentication    = "authentication"
	KindAuthorization     = "authorization"
	KindNotFound          = "not_found"
	KindInvalidTransition = "invalid_transition"
	KindTimeConversion    = "time_conversion"
	KindConflict          = "conflict"
	KindInternal          = "internal"
)

const (
	msgInternalError  = "внутренняя ошибка сервера"
	msgUnauthorized   = "требуется аутентификация"
	msgForbidden      = "доступ запрещен"
	msgNotFound       = "ресурс не найден"
	msgConflict       = "запись была изменена параллельно, повторите запрос"
	msgTimeConversion = "не удалось перевести время в UTC"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DecodeJSON читает тело запроса в dst.
// Неизвестные поля и тело больше MaxBodyBytes считаются ошибкой.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes+1))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ошибку с видом, определенным по HTTP статусу
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{
		Code:    status,
		Kind:    kindForStatus(status),
		Message: message,
	})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError отправляет ошибку use case или сервиса.
// Код ответа определяется по виду ошибки из domain через errors.Is.
func RespondDomainError(w http.ResponseWriter, err error) {
	status, kind := Classify(err)
	RespondJSON(w, status, ErrorResponse{
		Code:    status,
		Kind:    kind,
		Message: messageFor(err, kind),
	})
}

// Classify возвращает HTTP статус и вид ошибки
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, KindValidation
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized, KindAuthentication
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden, KindAuthorization
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, KindInvalidTransition
	case errors.Is(err, domain.ErrTimeConversion):
		return http.StatusBadRequest, KindTimeConversion
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, KindConflict
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

// IsClientError возвращает true для ошибок, вызванных запросом клиента
func IsClientError(err error) bool {
	status, _ := Classify(err)
	return status < http.StatusInternalServerError
}

func messageFor(err error, kind string) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	var terr *domain.InvalidTransitionError
	if errors.As(err, &terr) {
		return terr.Error()
	}

	switch kind {
	case KindAuthentication:
		return msgUnauthorized
	case KindAuthorization:
		return msgForbidden
	case KindNotFound:
		return msgNotFound
	case KindConflict:
		return msgConflict
	case KindTimeConversion:
		return msgTimeConversion
	case KindValidation:
		return err.Error()
	default:
		return msgInternalError
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindAuthorization
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
