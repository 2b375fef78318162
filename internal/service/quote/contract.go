package quote

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Client клиент котировок бэкенда
type Client interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
}

// Metrics метрики котировок
type Metrics interface {
	ObserveQuote(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequestSource возвращает запрос котировки для текущего выбора
// Вызывается в момент срабатывания, а не в момент планирования
type RequestSource func() domain.QuoteRequest

// Hooks обработчики начала и завершения запроса котировки
type Hooks struct {
	Started  func()
	Finished func(q *domain.Quote, err error)
}
