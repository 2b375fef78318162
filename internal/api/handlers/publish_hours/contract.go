package publish_hours

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
)

type HoursPublisher interface {
	PublishHours(ctx context.Context, req *manage_availability.PublishRequest) (*manage_availability.PublishResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
