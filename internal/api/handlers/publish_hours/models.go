package publish_hours

import (
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// PublishHoursRequest HTTP request model
type PublishHoursRequest struct {
	SubjectID int64    `json:"subjectId,omitempty"` // для сброса кэша расписания
	DayOfWeek int      `json:"dayOfWeek"`           // 1 = понедельник ... 7 = воскресенье
	Hours     []string `json:"hours"`               // ["09:00", "10:00", "14:00"]
}

// PublishHoursResponse HTTP response model
type PublishHoursResponse struct {
	Ranges []RangeResponse `json:"ranges"`
}

// RangeResponse созданный диапазон [startTime, endTime)
type RangeResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PublishHoursRequest) ToUseCaseRequest(preferenceID int64) (*manage_availability.PublishRequest, error) {
	hours := make([]types.HourString, len(r.Hours))
	for i, raw := range r.Hours {
		hour, err := types.ParseHourString(raw)
		if err != nil {
			return nil, err
		}
		hours[i] = hour
	}
	return &manage_availability.PublishRequest{
		SubjectID:    r.SubjectID,
		PreferenceID: preferenceID,
		DayOfWeek:    r.DayOfWeek,
		Hours:        hours,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *manage_availability.PublishResponse) *PublishHoursResponse {
	ranges := make([]RangeResponse, len(resp.Ranges))
	for i, r := range resp.Ranges {
		ranges[i] = RangeResponse{
			StartTime: string(r.FromString()),
			EndTime:   string(r.ToString()),
		}
	}
	return &PublishHoursResponse{Ranges: ranges}
}
