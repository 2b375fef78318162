package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
)

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Recover перехватывает панику обработчика и отвечает 500
func Recover(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("%s %s - panic: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
