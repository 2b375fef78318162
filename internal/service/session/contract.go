package session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/reschedule_booking"
)

// AgendaSource источник расписания для кэша месяцев
type AgendaSource interface {
	GetAgenda(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error)
	GetAgendaFresh(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error)
}

// QuoteClient клиент котировок бэкенда
type QuoteClient interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
}

// BookingSubmitter отправка бронирования
type BookingSubmitter interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// RescheduleSubmitter отправка переноса бронирования
type RescheduleSubmitter interface {
	Execute(ctx context.Context, req *reschedule_booking.Request) (*reschedule_booking.Response, error)
}

// Metrics метрики сессий
type Metrics interface {
	ObserveMonthFetch(result string)
	ObserveQuote(result string)
	SessionOpened()
	SessionClosed()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
