package agenda

import (
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

type cachedSlot struct {
	Hour           string `json:"hour"`
	AvailabilityID int64  `json:"availabilityId,omitempty"`
	Status         string `json:"status"`
}

type cachedDay struct {
	Date    string       `json:"date"`
	DayName string       `json:"dayName"`
	Slots   []cachedSlot `json:"slots"`
}

func toCached(days []domain.DayAgenda) []cachedDay {
	result := make([]cachedDay, len(days))
	for i, d := range days {
		slots := make([]cachedSlot, len(d.Slots))
		for j, s := range d.Slots {
			slots[j] = cachedSlot{
				Hour:           string(s.Hour),
				AvailabilityID: s.AvailabilityID,
				Status:         string(s.Status),
			}
		}
		result[i] = cachedDay{Date: d.DateKey, DayName: d.DayName, Slots: slots}
	}
	return result
}

func fromCached(days []cachedDay) []domain.DayAgenda {
	result := make([]domain.DayAgenda, len(days))
	for i, d := range days {
		slots := make([]domain.TimeSlot, len(d.Slots))
		for j, s := range d.Slots {
			slots[j] = domain.TimeSlot{
				DateKey:        d.Date,
				Hour:           types.HourString(s.Hour),
				AvailabilityID: s.AvailabilityID,
				Status:         domain.SlotStatus(s.Status),
			}
		}
		result[i] = domain.DayAgenda{DateKey: d.Date, DayName: d.DayName, Slots: slots}
	}
	return result
}
