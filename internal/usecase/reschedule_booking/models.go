package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/reschedule"
)

// Request модель запроса на перенос бронирования
type Request struct {
	SessionID string
	SubjectID int64
	Validator *reschedule.Validator // Валидатор с контекстом переноса
	Block     *domain.Block         // Выбранный новый блок
	Slots     SlotIndex
	Location  *time.Location
}

// Response модель ответа с результатом переноса
type Response struct {
	BookingID int64
	Start     time.Time
	End       time.Time
	Resumed   bool // Перенос на это время уже был выполнен
}
