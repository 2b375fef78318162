package get_session

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
)

type SessionProvider interface {
	Get(id, token string) (*session.Session, error)
}

// SubmissionHistory журнал попыток отправки сессии
type SubmissionHistory interface {
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Submission, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
