package types

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

var (
	// ErrTimeConversion возвращается, когда перевод между таймзонами невозможен
	ErrTimeConversion = errors.New("time conversion failed")
)

// AddMinutesUTC прибавляет минуты к UTC времени на дату date.
// Результат заворачивается в пределах суток, дата не переносится.
func AddMinutesUTC(date Date, t TimeString, minutes int) (TimeString, error) {
	if date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidFormat)
	}
	return t.AddMinutes(minutes)
}

// AddMinutesUTCWithCarry прибавляет минуты к UTC времени и возвращает дату окончания
func AddMinutesUTCWithCarry(date Date, t TimeString, minutes int) (Date, TimeString, error) {
	if date.IsZero() {
		return Date{}, "", fmt.Errorf("%w: date is required", ErrInvalidFormat)
	}
	start, err := t.Minutes()
	if err != nil {
		return Date{}, "", err
	}

	total := start + minutes
	days := total / MinutesInDay
	if total < 0 && total%MinutesInDay != 0 {
		days--
	}
	return date.AddDays(days), TimeString(ToHHMM(total)), nil
}

// LocalToUTC переводит локальное время t на дату date в таймзоне tz в UTC.
// Смещение определяется для этой конкретной даты. Несуществующее локальное время
// (переход на летнее время) считается ошибкой.
func LocalToUTC(date Date, t TimeString, tz string) (Date, TimeString, error) {
	loc, err := loadLocation(tz)
	if err != nil {
		return Date{}, "", err
	}
	minutes, err := t.Minutes()
	if err != nil {
		return Date{}, "", fmt.Errorf("%w: %v", ErrTimeConversion, err)
	}
	if date.IsZero() {
		return Date{}, "", fmt.Errorf("%w: date is required", ErrTimeConversion)
	}

	y, m, d := date.Time().Date()
	local := time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)

	// time.Date молча нормализует время из "дыры" DST, поэтому проверяем обратным переводом
	if !DateOf(local).Equal(date) || NewTimeString(local) != t {
		return Date{}, "", fmt.Errorf("%w: %s %s does not exist in %s", ErrTimeConversion, date, t, tz)
	}

	utc := local.UTC()
	return DateOf(utc), NewTimeString(utc), nil
}

// UTCToLocal переводит UTC время t на дату date в локальное время таймзоны tz
func UTCToLocal(date Date, t TimeString, tz string) (Date, TimeString, error) {
	loc, err := loadLocation(tz)
	if err != nil {
		return Date{}, "", err
	}
	minutes, err := t.Minutes()
	if err != nil {
		return Date{}, "", fmt.Errorf("%w: %v", ErrTimeConversion, err)
	}
	if date.IsZero() {
		return Date{}, "", fmt.Errorf("%w: date is required", ErrTimeConversion)
	}

	y, m, d := date.Time().Date()
	local := time.Date(y, m, d, minutes/60, minutes%60, 0, 0, time.UTC).In(loc)
	return DateOf(local), NewTimeString(local), nil
}

// ValidateTimezone проверяет, что tz является известной IANA таймзоной
func ValidateTimezone(tz string) error {
	_, err := loadLocation(tz)
	return err
}

func loadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, fmt.Errorf("%w: timezone is empty", ErrTimeConversion)
	}
	// "Local" зависит от зоны сервера
	if tz == "Local" {
		return nil, fmt.Errorf("%w: timezone %q is host-dependent", ErrTimeConversion, tz)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrTimeConversion, tz, err)
	}
	return loc, nil
}
