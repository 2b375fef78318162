package blocks

import (
	"fmt"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// SlotResolver источник слотов по дате и часу
type SlotResolver interface {
	Slot(dateKey string, hour types.HourString) (domain.TimeSlot, bool)
}

// BuildBlocks строит блоки для выбранных часов одного дня
// Каждый час блока должен разрешаться в доступный слот, иначе возвращается ErrStaleSelection.
// AvailabilityID блока берется у его первого часа
func BuildBlocks(dateKey string, hours []types.HourString, resolver SlotResolver) ([]domain.Block, error) {
	ranges, err := ConsolidateHours(hours)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Block, 0, len(ranges))
	for _, r := range ranges {
		block, err := blockFromRange(dateKey, r, resolver)
		if err != nil {
			return nil, err
		}
		result = append(result, block)
	}
	return result, nil
}

// BuildBlocksLenient строит блоки, пропуская те, чей первый час больше не разрешается в слот
// Пропущенные блоки возвращаются вторым значением
func BuildBlocksLenient(dateKey string, hours []types.HourString, resolver SlotResolver) ([]domain.Block, []domain.Block, error) {
	ranges, err := ConsolidateHours(hours)
	if err != nil {
		return nil, nil, err
	}

	kept := make([]domain.Block, 0, len(ranges))
	dropped := make([]domain.Block, 0)
	for _, r := range ranges {
		slot, ok := resolver.Slot(dateKey, r.FromString())
		if !ok || !slot.IsAvailable() {
			dropped = append(dropped, domain.Block{DateKey: dateKey, StartHour: r.From, EndHour: r.To})
			continue
		}
		kept = append(kept, domain.Block{
			DateKey:        dateKey,
			StartHour:      r.From,
			EndHour:        r.To,
			AvailabilityID: slot.AvailabilityID,
		})
	}
	return kept, dropped, nil
}

func blockFromRange(dateKey string, r domain.HourRange, resolver SlotResolver) (domain.Block, error) {
	var availabilityID int64
	for h := r.From; h < r.To; h++ {
		hour := types.MustHour(h)
		slot, ok := resolver.Slot(dateKey, hour)
		if !ok || !slot.IsAvailable() {
			return domain.Block{}, fmt.Errorf("%w: %s %s", domain.ErrStaleSelection, dateKey, hour)
		}
		if h == r.From {
			availabilityID = slot.AvailabilityID
		}
	}
	return domain.Block{
		DateKey:        dateKey,
		StartHour:      r.From,
		EndHour:        r.To,
		AvailabilityID: availabilityID,
	}, nil
}
