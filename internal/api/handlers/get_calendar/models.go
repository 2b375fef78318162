package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"` // 42 дня, начиная с воскресенья
}

// CalendarDay ячейка сетки месяца
type CalendarDay struct {
	Date    string `json:"date"`
	InMonth bool   `json:"inMonth"`
	Weekday int    `json:"weekday"` // 0 = воскресенье
}

// FromGrid конвертирует сетку месяца в HTTP response
func FromGrid(ref time.Time, grid calendar.Grid) *CalendarResponse {
	days := make([]CalendarDay, len(grid))
	for i, d := range grid {
		days[i] = CalendarDay{
			Date:    calendar.DateKey(d),
			InMonth: calendar.InMonth(d, ref),
			Weekday: int(d.Weekday()),
		}
	}
	return &CalendarResponse{
		Month: calendar.MonthKey(ref),
		Days:  days,
	}
}
