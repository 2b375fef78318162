package toggle_hour

import "github.com/m04kA/SMC-TutorBooking/internal/service/session"

type SessionProvider interface {
	Get(id, token string) (*session.Session, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
