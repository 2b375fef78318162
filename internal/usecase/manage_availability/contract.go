package manage_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/tutorapi"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// AvailabilityClient интерфейс клиента бэкенда для работы с доступностью
type AvailabilityClient interface {
	GetAgenda(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error)
	CreateAvailability(ctx context.Context, req *tutorapi.CreateAvailabilityRequest) error
	DeleteAvailability(ctx context.Context, availabilityID int64) error
}

// ConflictGuard проверки конфликтов с бронированиями
type ConflictGuard interface {
	CheckSlotRemoval(week *domain.WeekSchedule, weekday time.Weekday, hour types.HourString) error
	CheckDayDisable(week *domain.WeekSchedule, weekday time.Weekday) error
}

// AgendaInvalidator сбрасывает общий кэш расписания предмета после изменений
type AgendaInvalidator interface {
	Invalidate(ctx context.Context, subjectID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
