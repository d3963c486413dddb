package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// MinutesInDay количество минут в сутках
const MinutesInDay = 24 * 60

var (
	// ErrInvalidFormat возвращается, когда строка не соответствует формату HH:MM
	ErrInvalidFormat = errors.New("invalid time string format")
)

// TimeString время суток в формате HH:MM (24-часовой формат, без даты и таймзоны)
type TimeString string

// NewTimeString создает TimeString из time.Time (часы и минуты в локации t)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString создает TimeString из строки с валидацией
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет формат HH:MM и диапазоны часов и минут
func (t TimeString) Validate() error {
	_, err := ToMinutesSinceMidnight(string(t))
	return err
}

// Minutes возвращает количество минут с полуночи
func (t TimeString) Minutes() (int, error) {
	return ToMinutesSinceMidnight(string(t))
}

// AddMinutes прибавляет минуты к времени с переходом через полночь (дата не учитывается)
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return TimeString(ToHHMM(m + minutes)), nil
}

// IsBefore сравнивает два времени; некорректные значения никогда не раньше
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter сравнивает два времени; некорректные значения никогда не позже
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a > b
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner
// Postgres TIME приходит строкой "HH:MM:SS", поэтому секунды отбрасываются
func (t *TimeString) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidFormat, src)
	}

	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ToMinutesSinceMidnight переводит "HH:MM" в минуты [0, 1439]
func ToMinutesSinceMidnight(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, hhmm)
	}

	hours, ok := parseTwoDigits(hhmm[0:2])
	if !ok || hours > 23 {
		return 0, fmt.Errorf("%w: hour out of range in %q", ErrInvalidFormat, hhmm)
	}

	minutes, ok := parseTwoDigits(hhmm[3:5])
	if !ok || minutes > 59 {
		return 0, fmt.Errorf("%w: minute out of range in %q", ErrInvalidFormat, hhmm)
	}

	return hours*60 + minutes, nil
}

// ToHHMM форматирует минуты с полуночи в "HH:MM" по модулю 1440
func ToHHMM(minutes int) string {
	m := ((minutes % MinutesInDay) + MinutesInDay) % MinutesInDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func parseTwoDigits(s string) (int, bool) {
	if len(s) != 2 {
		return 0, false
	}
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
