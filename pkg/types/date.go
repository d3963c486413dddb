package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout формат календарной даты YYYY-MM-DD
const DateLayout = "2006-01-02"

// Date календарная дата без времени и таймзоны
// Внутри хранится как полночь UTC, поэтому день недели не зависит от локали сервера
type Date struct {
	t time.Time
}

// NewDate создает дату из компонент
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf возвращает календарную дату момента t в его локации
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate разбирает строку YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrInvalidFormat, s, err)
	}
	return Date{t: t}, nil
}

// AddDays сдвигает дату на n календарных дней
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Weekday день недели по календарю UTC
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Time полночь даты в UTC
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Value реализует driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan реализует sql.Scanner (Postgres DATE приходит как time.Time, SQLite как текст)
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidFormat, src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DayOfWeekName возвращает английское название дня недели ("Monday" ... "Sunday") для даты YYYY-MM-DD
func DayOfWeekName(dateISO string) (string, error) {
	d, err := ParseDate(dateISO)
	if err != nil {
		return "", err
	}
	return d.Weekday().String(), nil
}
