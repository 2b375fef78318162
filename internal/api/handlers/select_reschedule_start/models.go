package select_reschedule_start

import "github.com/m04kA/SMC-TutorBooking/internal/api/handlers"

// SelectStartRequest HTTP request model
type SelectStartRequest struct {
	Date string `json:"date"` // "2024-06-05"
	Hour string `json:"hour"` // "11:00"
}

// SelectStartResponse HTTP response model
type SelectStartResponse struct {
	Block   handlers.BlockResponse    `json:"block"`
	Session *handlers.SessionResponse `json:"session"`
}
