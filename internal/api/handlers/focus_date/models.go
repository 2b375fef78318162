package focus_date

// FocusRequest HTTP request model
type FocusRequest struct {
	Date string `json:"date"` // "2024-06-05"
}
