package monthcache

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// AgendaSource источник расписания (REST клиент или кэш второго уровня)
// GetAgendaFresh всегда идет в бэкенд и обновляет кэш второго уровня, если он есть
type AgendaSource interface {
	GetAgenda(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error)
	GetAgendaFresh(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error)
}

// Metrics метрики загрузки месяцев
type Metrics interface {
	ObserveMonthFetch(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MergedFunc вызывается после слияния месяца в индекс
type MergedFunc func(subjectID int64, monthKey string)
