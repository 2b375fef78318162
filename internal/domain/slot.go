package domain

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// SlotStatus статус часа в расписании преподавателя
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotOccupied  SlotStatus = "occupied"
)

// IsValid проверяет, что статус известен
func (s SlotStatus) IsValid() bool {
	return s == SlotAvailable || s == SlotOccupied
}

// TimeSlot один час расписания на конкретную дату
// Снимок данных бэкенда: локально не изменяется, при перезагрузке заменяется целиком
type TimeSlot struct {
	DateKey        string
	Hour           types.HourString
	AvailabilityID int64
	Status         SlotStatus
}

// IsAvailable возвращает true, если час можно забронировать
func (s TimeSlot) IsAvailable() bool {
	return s.Status == SlotAvailable
}

// IsOccupied возвращает true, если час уже забронирован
func (s TimeSlot) IsOccupied() bool {
	return s.Status == SlotOccupied
}

// Start возвращает момент начала слота в указанной локации
func (s TimeSlot) Start(loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(DateFormat, s.DateKey, loc)
	if err != nil {
		return time.Time{}, err
	}
	return s.Hour.On(date), nil
}

// Weekday возвращает день недели слота
func (s TimeSlot) Weekday() (time.Weekday, error) {
	date, err := time.Parse(DateFormat, s.DateKey)
	if err != nil {
		return 0, err
	}
	return date.Weekday(), nil
}

// DayAgenda расписание одного календарного дня
type DayAgenda struct {
	DateKey string
	DayName string
	Slots   []TimeSlot // упорядочены по времени
}

// MonthCacheEntry данные одного месяца одного предмета
type MonthCacheEntry struct {
	SubjectID          int64
	MonthKey           string
	AvailabilityByDate map[string][]types.HourString
	SlotsByDate        map[string]map[types.HourString]TimeSlot
}

// WeekSchedule недельное расписание владельца (преподавателя)
type WeekSchedule struct {
	SubjectID   int64
	EnabledDays map[time.Weekday]bool
	Slots       []TimeSlot
}

// EnabledCount возвращает количество включенных дней
func (w *WeekSchedule) EnabledCount() int {
	count := 0
	for _, enabled := range w.EnabledDays {
		if enabled {
			count++
		}
	}
	return count
}

// SlotsOn возвращает слоты указанного дня недели
func (w *WeekSchedule) SlotsOn(day time.Weekday) []TimeSlot {
	result := make([]TimeSlot, 0)
	for _, slot := range w.Slots {
		weekday, err := slot.Weekday()
		if err != nil {
			continue
		}
		if weekday == day {
			result = append(result, slot)
		}
	}
	return result
}
