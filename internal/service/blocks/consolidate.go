package blocks

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// Consolidate объединяет набор часов суток в минимальные непрерывные диапазоны
// Часы сортируются, повторы отбрасываются. Диапазон продлевается, пока next == prev+1,
// на разрыве выдается {first, last+1}. Пустой вход дает пустой результат.
//
// Пример: {9, 10, 11, 14} -> [{9, 12}, {14, 15}]
//
// Одна и та же функция используется при публикации часов преподавателем
// и при превращении выбора студента в блоки котировки
func Consolidate(hours []int) []domain.HourRange {
	if len(hours) == 0 {
		return []domain.HourRange{}
	}

	sorted := make([]int, len(hours))
	copy(sorted, hours)
	sort.Ints(sorted)

	ranges := make([]domain.HourRange, 0)
	first, prev := sorted[0], sorted[0]

	for _, h := range sorted[1:] {
		if h == prev {
			continue
		}
		if h == prev+1 {
			prev = h
			continue
		}
		ranges = append(ranges, domain.HourRange{From: first, To: prev + 1})
		first, prev = h, h
	}
	ranges = append(ranges, domain.HourRange{From: first, To: prev + 1})

	return ranges
}

// ConsolidateHours то же, что Consolidate, для строк "HH:00"
func ConsolidateHours(hours []types.HourString) ([]domain.HourRange, error) {
	ints, err := ToInts(hours)
	if err != nil {
		return nil, err
	}
	return Consolidate(ints), nil
}

// ToInts переводит строки "HH:00" в номера часов
func ToInts(hours []types.HourString) ([]int, error) {
	ints := make([]int, 0, len(hours))
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		ints = append(ints, h.Hour())
	}
	return ints, nil
}
