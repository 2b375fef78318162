package get_week

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// WeekResponse HTTP response model
type WeekResponse struct {
	SubjectID   int64          `json:"subjectId"`
	From        string         `json:"from"`
	EnabledDays []int          `json:"enabledDays"` // 1 = понедельник ... 7 = воскресенье
	Slots       []SlotResponse `json:"slots"`
}

// SlotResponse час недельного расписания
type SlotResponse struct {
	Date           string `json:"date"`
	Hour           string `json:"hour"`
	DayOfWeek      int    `json:"dayOfWeek"`
	AvailabilityID int64  `json:"availabilityId,omitempty"`
	Status         string `json:"status"`
}

// FromWeekSchedule конвертирует недельное расписание в HTTP response
func FromWeekSchedule(from time.Time, week *domain.WeekSchedule) *WeekResponse {
	resp := &WeekResponse{
		SubjectID:   week.SubjectID,
		From:        from.Format(domain.DateFormat),
		EnabledDays: make([]int, 0, len(week.EnabledDays)),
		Slots:       make([]SlotResponse, 0, len(week.Slots)),
	}

	for day, enabled := range week.EnabledDays {
		if enabled {
			resp.EnabledDays = append(resp.EnabledDays, domain.ISOWeekday(day))
		}
	}
	sort.Ints(resp.EnabledDays)

	for _, slot := range week.Slots {
		dayOfWeek := 0
		if weekday, err := slot.Weekday(); err == nil {
			dayOfWeek = domain.ISOWeekday(weekday)
		}
		resp.Slots = append(resp.Slots, SlotResponse{
			Date:           slot.DateKey,
			Hour:           string(slot.Hour),
			DayOfWeek:      dayOfWeek,
			AvailabilityID: slot.AvailabilityID,
			Status:         string(slot.Status),
		})
	}
	return resp
}
