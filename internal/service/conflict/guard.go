package conflict

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Guard проверяет действия над расписанием на пересечение с бронированиями
// При отказе ничего не изменяется
type Guard struct {
	logger Logger
}

// NewGuard создает новый экземпляр проверки конфликтов
func NewGuard(logger Logger) *Guard {
	return &Guard{logger: logger}
}

// CheckSlotRemoval запрещает удалять час, если в этот день недели и час есть бронирование
func (g *Guard) CheckSlotRemoval(week *domain.WeekSchedule, weekday time.Weekday, hour types.HourString) error {
	for _, slot := range week.SlotsOn(weekday) {
		if slot.IsOccupied() && slot.Hour == hour {
			g.logger.Warn("CheckSlotRemoval: subject=%d %s %s is booked on %s", week.SubjectID, weekday, hour, slot.DateKey)
			return fmt.Errorf("%w: %s %s is booked on %s", domain.ErrConflict, weekday, hour, slot.DateKey)
		}
	}
	return nil
}

// CheckDayDisable запрещает выключать день с бронированиями и последний включенный день
func (g *Guard) CheckDayDisable(week *domain.WeekSchedule, weekday time.Weekday) error {
	for _, slot := range week.SlotsOn(weekday) {
		if slot.IsOccupied() {
			g.logger.Warn("CheckDayDisable: subject=%d %s has booking at %s %s", week.SubjectID, weekday, slot.DateKey, slot.Hour)
			return fmt.Errorf("%w: %s has a booking at %s %s", domain.ErrConflict, weekday, slot.DateKey, slot.Hour)
		}
	}

	if week.EnabledDays[weekday] && week.EnabledCount() <= 1 {
		g.logger.Warn("CheckDayDisable: subject=%d %s is the last enabled day", week.SubjectID, weekday)
		return fmt.Errorf("%w: %s", domain.ErrLastDay, weekday)
	}
	return nil
}

// CheckRange проверяет, что интервал [start, end) не пересекается с занятыми часами
func (g *Guard) CheckRange(occupied []domain.TimeSlot, start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: empty range %s - %s", domain.ErrInvalidInput, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	for _, slot := range occupied {
		if !slot.IsOccupied() {
			continue
		}
		slotStart, err := slot.Start(start.Location())
		if err != nil {
			continue
		}
		slotEnd := slotStart.Add(time.Hour)
		if slotStart.Before(end) && start.Before(slotEnd) {
			g.logger.Warn("CheckRange: %s - %s overlaps booked %s %s",
				start.Format(time.RFC3339), end.Format(time.RFC3339), slot.DateKey, slot.Hour)
			return fmt.Errorf("%w: %s %s is booked", domain.ErrConflict, slot.DateKey, slot.Hour)
		}
	}
	return nil
}
