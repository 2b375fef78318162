package disable_day

// DisableDayResponse HTTP response model
type DisableDayResponse struct {
	Removed []int64 `json:"removed"` // удаленные записи доступности
}
