package remove_slot

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
)

type SlotRemover interface {
	RemoveSlot(ctx context.Context, req *manage_availability.RemoveSlotRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
