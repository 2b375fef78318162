package create_session

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
)

type SessionCreator interface {
	Create(ctx context.Context, opts session.Options) (*session.Session, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
