package selection

import (
	"sort"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// Store выбор студента: дата -> множество часов
// Пустые множества не хранятся: дата удаляется, как только в ней не остается часов
type Store struct {
	byDate map[string]map[types.HourString]struct{}
}

// NewStore создает пустой выбор
func NewStore() *Store {
	return &Store{byDate: make(map[string]map[types.HourString]struct{})}
}

// ToggleHour переключает час в дате
// known - известные сейчас доступные часы этой даты: час вне списка не добавляется,
// а уже выбранный снимается независимо от known.
// Возвращает true, если выбор изменился
func (s *Store) ToggleHour(dateKey string, hour types.HourString, known []types.HourString) bool {
	if s.IsSelected(dateKey, hour) {
		s.Remove(dateKey, hour)
		return true
	}
	if !contains(known, hour) {
		return false
	}

	hours, ok := s.byDate[dateKey]
	if !ok {
		hours = make(map[types.HourString]struct{})
		s.byDate[dateKey] = hours
	}
	hours[hour] = struct{}{}
	return true
}

// Remove убирает час из выбора, если он там есть
func (s *Store) Remove(dateKey string, hour types.HourString) {
	hours, ok := s.byDate[dateKey]
	if !ok {
		return
	}
	delete(hours, hour)
	if len(hours) == 0 {
		delete(s.byDate, dateKey)
	}
}

// IsSelected проверяет, выбран ли час
func (s *Store) IsSelected(dateKey string, hour types.HourString) bool {
	_, ok := s.byDate[dateKey][hour]
	return ok
}

// Hours возвращает выбранные часы даты по возрастанию
func (s *Store) Hours(dateKey string) []types.HourString {
	return sortedHours(s.byDate[dateKey])
}

// Selections возвращает выбор по датам: даты и часы по возрастанию
// Порядок стабилен: на него опираются сводка и порядок элементов котировки
func (s *Store) Selections() []domain.DaySelection {
	dates := make([]string, 0, len(s.byDate))
	for date := range s.byDate {
		dates = append(dates, date)
	}
	// "YYYY-MM-DD" сортируется лексикографически так же, как хронологически
	sort.Strings(dates)

	result := make([]domain.DaySelection, 0, len(dates))
	for _, date := range dates {
		result = append(result, domain.DaySelection{
			DateKey: date,
			Hours:   sortedHours(s.byDate[date]),
		})
	}
	return result
}

// TotalHours возвращает общее количество выбранных часов
func (s *Store) TotalHours() int {
	total := 0
	for _, hours := range s.byDate {
		total += len(hours)
	}
	return total
}

// IsEmpty возвращает true, если ничего не выбрано
func (s *Store) IsEmpty() bool {
	return len(s.byDate) == 0
}

// Clear сбрасывает выбор
func (s *Store) Clear() {
	s.byDate = make(map[string]map[types.HourString]struct{})
}

func sortedHours(set map[types.HourString]struct{}) []types.HourString {
	hours := make([]types.HourString, 0, len(set))
	for h := range set {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(a, b int) bool { return hours[a] < hours[b] })
	return hours
}

func contains(hours []types.HourString, hour types.HourString) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}
