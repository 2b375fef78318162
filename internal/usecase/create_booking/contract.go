package create_booking

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/tutorapi"
)

// BookingClient интерфейс клиента бэкенда для создания бронирования
type BookingClient interface {
	CreateBooking(ctx context.Context, req *tutorapi.CreateBookingRequest) (string, error)
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
