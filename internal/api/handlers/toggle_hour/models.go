package toggle_hour

import "github.com/m04kA/SMC-TutorBooking/internal/api/handlers"

// ToggleHourRequest HTTP request model
type ToggleHourRequest struct {
	Date string `json:"date"` // "2024-06-05"
	Hour string `json:"hour"` // "09:00"
}

// ToggleHourResponse HTTP response model
type ToggleHourResponse struct {
	Changed bool                      `json:"changed"` // false, если час недоступен на эту дату
	Session *handlers.SessionResponse `json:"session"`
}
