package reschedule_booking

import (
	"fmt"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionID is required", domain.ErrInvalidInput)
	}

	if req.SubjectID <= 0 {
		return fmt.Errorf("%w: subjectID must be positive", domain.ErrInvalidInput)
	}

	if req.Validator == nil {
		return fmt.Errorf("%w: reschedule context is required", domain.ErrInvalidInput)
	}

	if req.Slots == nil {
		return fmt.Errorf("%w: slot index is required", domain.ErrInvalidInput)
	}

	if req.Block == nil {
		return domain.ErrEmptySelection
	}

	return nil
}

// blockHours возвращает часы блока в формате "HH:00"
func blockHours(b domain.Block) []types.HourString {
	hours := make([]types.HourString, 0, b.Hours())
	for h := b.StartHour; h < b.EndHour; h++ {
		hours = append(hours, types.MustHour(h))
	}
	return hours
}
