package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// RescheduleClient интерфейс клиента бэкенда для переноса бронирования
type RescheduleClient interface {
	Reschedule(ctx context.Context, bookingID int64, items []domain.QuoteItem) error
}

// ConflictGuard проверка пересечения с занятыми часами
type ConflictGuard interface {
	CheckRange(occupied []domain.TimeSlot, start, end time.Time) error
}

// SlotIndex индекс слотов сессии
type SlotIndex interface {
	Hours(dateKey string) []types.HourString
	Slot(dateKey string, hour types.HourString) (domain.TimeSlot, bool)
	OccupiedSlots() []domain.TimeSlot
}

// SubmissionRepository интерфейс журнала отправок
type SubmissionRepository interface {
	Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error)
	FindSucceeded(ctx context.Context, sessionID string, kind domain.SubmissionKind, subjectID int64, signature domain.QuoteSignature) (*domain.Submission, error)
	MarkSucceeded(ctx context.Context, id int64, redirectURL *string) error
	MarkFailed(ctx context.Context, id int64, message string) error
}

// AgendaInvalidator сбрасывает общий кэш расписания предмета
type AgendaInvalidator interface {
	Invalidate(ctx context.Context, subjectID int64) error
}

// Metrics интерфейс метрик отправок
type Metrics interface {
	ObserveSubmission(kind, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
