package ensure_month

// EnsureMonthRequest HTTP request model
type EnsureMonthRequest struct {
	Month string `json:"month"` // "2024-06"
	Force bool   `json:"force"` // перезагрузить месяц, даже если он уже загружен
}
