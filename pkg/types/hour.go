package types

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidHourString возвращается при некорректном формате часа
var ErrInvalidHourString = errors.New("invalid hour string format")

// HourString час суток в формате "HH:00"
// Слоты в расписании преподавателя всегда начинаются в начале часа
type HourString string

// NewHourString создает HourString из номера часа (0-23)
func NewHourString(hour int) (HourString, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: hour %d out of range", ErrInvalidHourString, hour)
	}
	return HourString(fmt.Sprintf("%02d:00", hour)), nil
}

// MustHour создает HourString и паникует при некорректном значении
// Используется для констант и в тестах
func MustHour(hour int) HourString {
	h, err := NewHourString(hour)
	if err != nil {
		panic(err)
	}
	return h
}

// NewHourStringFromTime возвращает час, в котором находится момент t
func NewHourStringFromTime(t time.Time) HourString {
	return HourString(fmt.Sprintf("%02d:00", t.Hour()))
}

// ParseHourString разбирает строку "HH:00" или "HH:MM:SS" с нулевыми минутами
func ParseHourString(s string) (HourString, error) {
	if len(s) != 5 && len(s) != 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidHourString, s)
	}
	if s[2] != ':' || s[3:5] != "00" {
		return "", fmt.Errorf("%w: %q", ErrInvalidHourString, s)
	}
	if len(s) == 8 && s[5:] != ":00" {
		return "", fmt.Errorf("%w: %q", ErrInvalidHourString, s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidHourString, s)
	}
	return NewHourString(hour)
}

// Hour возвращает номер часа (0-23)
// Для некорректной строки возвращает -1
func (h HourString) Hour() int {
	if err := h.Validate(); err != nil {
		return -1
	}
	hour, _ := strconv.Atoi(string(h[:2]))
	return hour
}

// Validate проверяет формат "HH:00"
func (h HourString) Validate() error {
	s := string(h)
	if len(s) != 5 || s[2] != ':' || s[3:] != "00" {
		return fmt.Errorf("%w: %q", ErrInvalidHourString, s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("%w: %q", ErrInvalidHourString, s)
	}
	return nil
}

// IsZero проверяет, что значение не задано
func (h HourString) IsZero() bool {
	return h == ""
}

// String возвращает строковое представление
func (h HourString) String() string {
	return string(h)
}

// IsBefore проверяет, что час раньше other
func (h HourString) IsBefore(other HourString) bool {
	return h.Hour() < other.Hour()
}

// IsAfter проверяет, что час позже other
func (h HourString) IsAfter(other HourString) bool {
	return h.Hour() > other.Hour()
}

// On возвращает момент начала часа в указанную дату
func (h HourString) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, h.Hour(), 0, 0, 0, date.Location())
}
