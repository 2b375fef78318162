package domain

import "time"

// RescheduleContext параметры переноса текущего бронирования
type RescheduleContext struct {
	BookingID     int64
	CurrentStart  time.Time
	CurrentEnd    time.Time
	RequiredHours int
}

// MinStart возвращает границу, после которой может начинаться новый блок
func (c RescheduleContext) MinStart() time.Time {
	return c.CurrentEnd
}
