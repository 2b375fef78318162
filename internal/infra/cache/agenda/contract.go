package agenda

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Source источник расписания, который кэшируется
type Source interface {
	GetAgenda(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error)
}

// Metrics метрики обращений к кэшу
type Metrics interface {
	ObserveAgendaCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
