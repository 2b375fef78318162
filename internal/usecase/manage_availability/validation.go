package manage_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// validatePublishRequest валидирует запрос публикации часов
func validatePublishRequest(req *PublishRequest) (time.Weekday, error) {
	if req.PreferenceID <= 0 {
		return 0, fmt.Errorf("%w: preferenceID must be positive", domain.ErrInvalidInput)
	}

	weekday, ok := domain.WeekdayFromISO(req.DayOfWeek)
	if !ok {
		return 0, fmt.Errorf("%w: dayOfWeek must be between 1 and 7", domain.ErrInvalidInput)
	}

	if len(req.Hours) == 0 {
		return 0, fmt.Errorf("%w: at least one hour is required", domain.ErrInvalidInput)
	}

	if len(req.Hours) > domain.HoursADay {
		return 0, fmt.Errorf("%w: at most %d hours per day", domain.ErrInvalidInput, domain.HoursADay)
	}

	return weekday, nil
}

// validateRemoveSlotRequest валидирует запрос удаления записи доступности
func validateRemoveSlotRequest(req *RemoveSlotRequest) error {
	if req.SubjectID <= 0 {
		return fmt.Errorf("%w: subjectID must be positive", domain.ErrInvalidInput)
	}

	if req.AvailabilityID <= 0 {
		return fmt.Errorf("%w: availabilityID must be positive", domain.ErrInvalidInput)
	}

	if req.WeekFrom.IsZero() {
		return fmt.Errorf("%w: week start is required", domain.ErrInvalidInput)
	}

	return nil
}

// validateDisableDayRequest валидирует запрос выключения дня
func validateDisableDayRequest(req *DisableDayRequest) (time.Weekday, error) {
	if req.SubjectID <= 0 {
		return 0, fmt.Errorf("%w: subjectID must be positive", domain.ErrInvalidInput)
	}

	weekday, ok := domain.WeekdayFromISO(req.DayOfWeek)
	if !ok {
		return 0, fmt.Errorf("%w: dayOfWeek must be between 1 and 7", domain.ErrInvalidInput)
	}

	if req.WeekFrom.IsZero() {
		return 0, fmt.Errorf("%w: week start is required", domain.ErrInvalidInput)
	}

	return weekday, nil
}
