package reschedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/blocks"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// SlotSource доступные часы и слоты по дате
type SlotSource interface {
	Hours(dateKey string) []types.HourString
	Slot(dateKey string, hour types.HourString) (domain.TimeSlot, bool)
}

// Validator проверяет выбор нового времени для переносимого бронирования
// Новый блок должен целиком состоять из доступных часов и начинаться строго после CurrentEnd
type Validator struct {
	rc  domain.RescheduleContext
	loc *time.Location
}

// NewValidator создает валидатор для контекста переноса
func NewValidator(rc domain.RescheduleContext, loc *time.Location) (*Validator, error) {
	if loc == nil {
		loc = time.UTC
	}
	if rc.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingId must be positive", domain.ErrInvalidInput)
	}
	if rc.CurrentEnd.IsZero() {
		return nil, fmt.Errorf("%w: current booking end is required", domain.ErrInvalidInput)
	}
	if !rc.CurrentStart.IsZero() && !rc.CurrentEnd.After(rc.CurrentStart) {
		return nil, fmt.Errorf("%w: current booking ends before it starts", domain.ErrInvalidInput)
	}
	if rc.RequiredHours == 0 {
		rc.RequiredHours = domain.DefaultRescheduleHours
	}
	if rc.RequiredHours < 1 || rc.RequiredHours > domain.MaxRescheduleHours {
		return nil, fmt.Errorf("%w: required hours must be between 1 and %d", domain.ErrInvalidInput, domain.MaxRescheduleHours)
	}
	return &Validator{rc: rc, loc: loc}, nil
}

// Context возвращает контекст переноса
func (v *Validator) Context() domain.RescheduleContext {
	return v.rc
}

// AllowedHours фильтрует доступные часы даты по границе CurrentEnd
// Дни до даты границы исключаются целиком, в день границы остаются часы строго позже ее часа
func (v *Validator) AllowedHours(dateKey string, available []types.HourString) []types.HourString {
	minStart := v.rc.MinStart().In(v.loc)
	minDate := minStart.Format(domain.DateFormat)

	switch {
	case dateKey < minDate:
		return []types.HourString{}
	case dateKey > minDate:
		result := make([]types.HourString, len(available))
		copy(result, available)
		return result
	}

	result := make([]types.HourString, 0, len(available))
	for _, hour := range available {
		if hour.Hour() > minStart.Hour() {
			result = append(result, hour)
		}
	}
	return result
}

// SelectStart строит блок длиной RequiredHours, начинающийся с hour
// Если хотя бы одного часа блока нет среди разрешенных, возвращается ErrIncompleteBlock
func (v *Validator) SelectStart(dateKey string, hour types.HourString, source SlotSource) (domain.Block, error) {
	if err := hour.Validate(); err != nil {
		return domain.Block{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	available := source.Hours(dateKey)
	allowed := toSet(v.AllowedHours(dateKey, available))

	if _, ok := allowed[hour]; !ok {
		if contains(available, hour) {
			return domain.Block{}, fmt.Errorf("%w: %s %s", domain.ErrNotAfterBoundary, dateKey, hour)
		}
		return domain.Block{}, fmt.Errorf("%w: %s %s is not available", domain.ErrIncompleteBlock, dateKey, hour)
	}

	start := hour.Hour()
	end := start + v.rc.RequiredHours
	if end > domain.HoursADay {
		return domain.Block{}, fmt.Errorf("%w: %d hours from %s exceed the day", domain.ErrIncompleteBlock, v.rc.RequiredHours, hour)
	}

	hours := make([]types.HourString, 0, v.rc.RequiredHours)
	for h := start; h < end; h++ {
		candidate := types.MustHour(h)
		if _, ok := allowed[candidate]; !ok {
			return domain.Block{}, fmt.Errorf("%w: %s %s is missing from %d-hour block", domain.ErrIncompleteBlock, dateKey, candidate, v.rc.RequiredHours)
		}
		hours = append(hours, candidate)
	}

	built, err := blocks.BuildBlocks(dateKey, hours, source)
	if err != nil {
		return domain.Block{}, err
	}
	if len(built) != 1 {
		return domain.Block{}, fmt.Errorf("%w: %s %s", domain.ErrIncompleteBlock, dateKey, hour)
	}
	return built[0], nil
}

// ValidateConfirm повторно проверяет блок перед отправкой
func (v *Validator) ValidateConfirm(block domain.Block) error {
	if block.Hours() != v.rc.RequiredHours {
		return fmt.Errorf("%w: block has %d hours, %d required", domain.ErrIncompleteBlock, block.Hours(), v.rc.RequiredHours)
	}
	start, _, err := block.Range(v.loc)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !start.After(v.rc.CurrentEnd) {
		return fmt.Errorf("%w: %s is not after %s", domain.ErrNotAfterBoundary,
			start.Format(time.RFC3339), v.rc.CurrentEnd.Format(time.RFC3339))
	}
	return nil
}

func toSet(hours []types.HourString) map[types.HourString]struct{} {
	set := make(map[types.HourString]struct{}, len(hours))
	for _, h := range hours {
		set[h] = struct{}{}
	}
	return set
}

func contains(hours []types.HourString, hour types.HourString) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}
