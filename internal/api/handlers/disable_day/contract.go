package disable_day

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
)

type DayDisabler interface {
	DisableDay(ctx context.Context, req *manage_availability.DisableDayRequest) (*manage_availability.DisableDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
