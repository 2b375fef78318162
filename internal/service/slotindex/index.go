package slotindex

import (
	"sort"
	"strings"
	"sync"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// Index индекс слотов: дата -> доступные часы и дата+час -> слот
// Изменяется только аддитивным слиянием (Merge) или явной заменой месяца (ReplaceMonth),
// поэтому читатели никогда не видят месяц частично
type Index struct {
	mu           sync.RWMutex
	availability map[string][]types.HourString
	slots        map[string]map[types.HourString]domain.TimeSlot
}

// New создает пустой индекс
func New() *Index {
	return &Index{
		availability: make(map[string][]types.HourString),
		slots:        make(map[string]map[types.HourString]domain.TimeSlot),
	}
}

// FromAgenda собирает запись кэша месяца из расписания по дням
// В список часов попадают только доступные слоты, в карту слотов - все
func FromAgenda(subjectID int64, monthKey string, days []domain.DayAgenda) domain.MonthCacheEntry {
	entry := domain.MonthCacheEntry{
		SubjectID:          subjectID,
		MonthKey:           monthKey,
		AvailabilityByDate: make(map[string][]types.HourString),
		SlotsByDate:        make(map[string]map[types.HourString]domain.TimeSlot),
	}

	for _, day := range days {
		bySlot := make(map[types.HourString]domain.TimeSlot, len(day.Slots))
		hours := make([]types.HourString, 0, len(day.Slots))
		for _, slot := range day.Slots {
			bySlot[slot.Hour] = slot
			if slot.IsAvailable() {
				hours = append(hours, slot.Hour)
			}
		}
		sortHours(hours)

		entry.SlotsByDate[day.DateKey] = bySlot
		if len(hours) > 0 {
			entry.AvailabilityByDate[day.DateKey] = hours
		}
	}

	return entry
}

// Merge добавляет данные месяца, не удаляя даты других месяцев
// Данные одной и той же даты заменяются целиком
func (i *Index) Merge(entry domain.MonthCacheEntry) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.mergeLocked(entry)
}

// ReplaceMonth удаляет все даты месяца monthKey и записывает новые данные
// Используется только при принудительной перезагрузке месяца
func (i *Index) ReplaceMonth(entry domain.MonthCacheEntry) {
	i.mu.Lock()
	defer i.mu.Unlock()

	prefix := entry.MonthKey + "-"
	for date := range i.slots {
		if strings.HasPrefix(date, prefix) {
			delete(i.slots, date)
		}
	}
	for date := range i.availability {
		if strings.HasPrefix(date, prefix) {
			delete(i.availability, date)
		}
	}
	i.mergeLocked(entry)
}

func (i *Index) mergeLocked(entry domain.MonthCacheEntry) {
	for date, bySlot := range entry.SlotsByDate {
		copied := make(map[types.HourString]domain.TimeSlot, len(bySlot))
		for hour, slot := range bySlot {
			copied[hour] = slot
		}
		i.slots[date] = copied
		delete(i.availability, date)
	}
	for date, hours := range entry.AvailabilityByDate {
		copied := make([]types.HourString, len(hours))
		copy(copied, hours)
		sortHours(copied)
		i.availability[date] = copied
	}
}

// Hours возвращает доступные часы даты по возрастанию
func (i *Index) Hours(dateKey string) []types.HourString {
	i.mu.RLock()
	defer i.mu.RUnlock()

	hours := i.availability[dateKey]
	result := make([]types.HourString, len(hours))
	copy(result, hours)
	return result
}

// Slot возвращает слот по дате и часу
func (i *Index) Slot(dateKey string, hour types.HourString) (domain.TimeSlot, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	bySlot, ok := i.slots[dateKey]
	if !ok {
		return domain.TimeSlot{}, false
	}
	slot, ok := bySlot[hour]
	return slot, ok
}

// IsAvailable проверяет, что час даты существует и доступен
func (i *Index) IsAvailable(dateKey string, hour types.HourString) bool {
	slot, ok := i.Slot(dateKey, hour)
	return ok && slot.IsAvailable()
}

// Dates возвращает даты с доступными часами по возрастанию
func (i *Index) Dates() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	dates := make([]string, 0, len(i.availability))
	for date, hours := range i.availability {
		if len(hours) > 0 {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}

// FirstAvailableDate возвращает самую раннюю дату с доступными часами
func (i *Index) FirstAvailableDate() (string, bool) {
	dates := i.Dates()
	if len(dates) == 0 {
		return "", false
	}
	return dates[0], true
}

// OccupiedSlots возвращает все занятые слоты индекса
func (i *Index) OccupiedSlots() []domain.TimeSlot {
	i.mu.RLock()
	defer i.mu.RUnlock()

	result := make([]domain.TimeSlot, 0)
	for _, bySlot := range i.slots {
		for _, slot := range bySlot {
			if slot.IsOccupied() {
				result = append(result, slot)
			}
		}
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].DateKey != result[b].DateKey {
			return result[a].DateKey < result[b].DateKey
		}
		return result[a].Hour < result[b].Hour
	})
	return result
}

// sortHours сортирует часы; "HH:00" сортируется лексикографически так же, как по времени
func sortHours(hours []types.HourString) {
	sort.Slice(hours, func(a, b int) bool { return hours[a] < hours[b] })
}
