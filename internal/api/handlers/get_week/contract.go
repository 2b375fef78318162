package get_week

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

type WeekLoader interface {
	LoadWeek(ctx context.Context, subjectID int64, from time.Time) (*domain.WeekSchedule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
