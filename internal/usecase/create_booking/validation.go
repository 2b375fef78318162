package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionID is required", domain.ErrInvalidInput)
	}

	if req.SubjectID <= 0 {
		return fmt.Errorf("%w: subjectID must be positive", domain.ErrInvalidInput)
	}

	if req.Slots == nil {
		return fmt.Errorf("%w: slot index is required", domain.ErrInvalidInput)
	}

	if req.HourlyRateCents < 0 {
		return fmt.Errorf("%w: hourly rate must not be negative", domain.ErrInvalidInput)
	}

	total := totalHours(req.Selections)
	if total == 0 {
		return domain.ErrEmptySelection
	}
	if total > domain.MaxSelectedHoursPerSelection {
		return fmt.Errorf("%w: at most %d hours can be booked at once", domain.ErrInvalidInput, domain.MaxSelectedHoursPerSelection)
	}

	return nil
}

func totalHours(selections []domain.DaySelection) int {
	total := 0
	for _, sel := range selections {
		total += len(sel.Hours)
	}
	return total
}

// uniqueAvailabilityIDs возвращает ID доступности блоков без повторов, в порядке блоков
func uniqueAvailabilityIDs(list []domain.Block) []int64 {
	seen := make(map[int64]struct{}, len(list))
	result := make([]int64, 0, len(list))
	for _, b := range list {
		if _, ok := seen[b.AvailabilityID]; ok {
			continue
		}
		seen[b.AvailabilityID] = struct{}{}
		result = append(result, b.AvailabilityID)
	}
	return result
}
