package create_session

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
)

var (
	errInvalidMonth      = errors.New("invalid month")
	errInvalidReschedule = errors.New("invalid reschedule context")
)

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	SubjectID       int64              `json:"subjectId"`
	Mode            string             `json:"mode"`                      // booking | reschedule
	HourlyRateCents *int64             `json:"hourlyRateCents,omitempty"` // по умолчанию из конфигурации
	Month           string             `json:"month,omitempty"`           // "2024-06"
	Reschedule      *RescheduleRequest `json:"reschedule,omitempty"`
}

// RescheduleRequest контекст переносимого бронирования
type RescheduleRequest struct {
	BookingID     int64  `json:"bookingId"`
	CurrentStart  string `json:"currentStart"` // RFC3339
	CurrentEnd    string `json:"currentEnd"`   // RFC3339
	RequiredHours int    `json:"requiredHours"`
}

// Defaults значения, которые не передаются клиентом
type Defaults struct {
	HourlyRateCents int64
	Location        *time.Location
}

// ToOptions конвертирует HTTP запрос в параметры сессии
func (r *CreateSessionRequest) ToOptions(defaults Defaults) (session.Options, error) {
	opts := session.Options{
		SubjectID:       r.SubjectID,
		Mode:            session.Mode(r.Mode),
		HourlyRateCents: defaults.HourlyRateCents,
		Location:        defaults.Location,
	}
	if r.HourlyRateCents != nil {
		opts.HourlyRateCents = *r.HourlyRateCents
	}

	if r.Month != "" {
		month, err := calendar.ParseMonth(r.Month, defaults.Location)
		if err != nil {
			return session.Options{}, errInvalidMonth
		}
		opts.Month = month
	}

	if r.Reschedule != nil {
		start, err := time.Parse(time.RFC3339, r.Reschedule.CurrentStart)
		if err != nil {
			return session.Options{}, errInvalidReschedule
		}
		end, err := time.Parse(time.RFC3339, r.Reschedule.CurrentEnd)
		if err != nil {
			return session.Options{}, errInvalidReschedule
		}
		opts.Reschedule = &domain.RescheduleContext{
			BookingID:     r.Reschedule.BookingID,
			CurrentStart:  start,
			CurrentEnd:    end,
			RequiredHours: r.Reschedule.RequiredHours,
		}
	}
	return opts, nil
}
