package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// HourRange непрерывный диапазон часов [From, To)
type HourRange struct {
	From int
	To   int
}

// Hours возвращает длину диапазона в часах
func (r HourRange) Hours() int {
	return r.To - r.From
}

// FromString возвращает начало диапазона в формате "HH:00"
func (r HourRange) FromString() types.HourString {
	return types.HourString(fmt.Sprintf("%02d:00", r.From))
}

// ToString возвращает конец диапазона в формате "HH:00"
// Для диапазона до полуночи возвращает "24:00"
func (r HourRange) ToString() types.HourString {
	return types.HourString(fmt.Sprintf("%02d:00", r.To))
}

// Block непрерывная последовательность часов одного дня, оплачиваемая как единое целое
// AvailabilityID берется у первого часа блока
type Block struct {
	DateKey        string
	StartHour      int
	EndHour        int
	AvailabilityID int64
}

// Hours возвращает длину блока в часах
func (b Block) Hours() int {
	return b.EndHour - b.StartHour
}

// Range возвращает моменты начала и конца блока в указанной локации
func (b Block) Range(loc *time.Location) (time.Time, time.Time, error) {
	date, err := time.ParseInLocation(DateFormat, b.DateKey, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := date.Date()
	start := time.Date(y, m, d, b.StartHour, 0, 0, 0, loc)
	end := start.Add(time.Duration(b.Hours()) * time.Hour)
	return start, end, nil
}

// DaySelection выбранные часы одного дня (часы отсортированы)
type DaySelection struct {
	DateKey string
	Hours   []types.HourString
}
