package confirm_session

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
)

// ConfirmResponse HTTP response model
// Для бронирования заполнен RedirectURL, для переноса - BookingID и новое время
type ConfirmResponse struct {
	RedirectURL      string `json:"redirectUrl,omitempty"`
	TotalAmountCents int64  `json:"totalAmountCents,omitempty"`
	TotalHours       int    `json:"totalHours,omitempty"`
	PriceID          string `json:"priceId,omitempty"`
	BookingID        int64  `json:"bookingId,omitempty"`
	Start            string `json:"start,omitempty"`
	End              string `json:"end,omitempty"`
	Resumed          bool   `json:"resumed"`
}

// FromConfirmResult конвертирует результат подтверждения в HTTP response
func FromConfirmResult(res *session.ConfirmResult) *ConfirmResponse {
	switch {
	case res.Booking != nil:
		return &ConfirmResponse{
			RedirectURL:      res.Booking.RedirectURL,
			TotalAmountCents: res.Booking.TotalAmountCents,
			TotalHours:       res.Booking.TotalHours,
			PriceID:          res.Booking.PriceID,
			Resumed:          res.Booking.Resumed,
		}
	case res.Reschedule != nil:
		return &ConfirmResponse{
			BookingID: res.Reschedule.BookingID,
			Start:     res.Reschedule.Start.Format(time.RFC3339),
			End:       res.Reschedule.End.Format(time.RFC3339),
			Resumed:   res.Reschedule.Resumed,
		}
	default:
		return &ConfirmResponse{}
	}
}
