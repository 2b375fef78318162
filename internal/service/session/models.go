package session

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/selection"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// Mode режим сессии
type Mode string

const (
	ModeBooking    Mode = "booking"
	ModeReschedule Mode = "reschedule"
)

// IsValid проверяет, что режим известен
func (m Mode) IsValid() bool {
	return m == ModeBooking || m == ModeReschedule
}

// Options параметры создания сессии
type Options struct {
	SubjectID       int64
	Mode            Mode
	HourlyRateCents int64
	Reschedule      *domain.RescheduleContext // только для ModeReschedule
	Auth            auth.Provider             // токен пользователя; nil - анонимная сессия
	Location        *time.Location            // часовой пояс календаря; nil - UTC
	Month           time.Time                 // месяц, открываемый первым; нулевое значение - текущий
}

// Deps зависимости сессии, общие для всех сессий менеджера
type Deps struct {
	Agenda        AgendaSource
	Quotes        QuoteClient
	Bookings      BookingSubmitter
	Reschedules   RescheduleSubmitter
	QuoteDebounce time.Duration
	Metrics       Metrics
	Logger        Logger
}

// Summary снимок состояния сессии для отображения
type Summary struct {
	ID               string
	Mode             Mode
	SubjectID        int64
	State            selection.State
	FocusedDate      string
	AvailableHours   []types.HourString // часы фокусной даты, которые можно выбрать
	Selections       []domain.DaySelection
	TotalHours       int
	TotalAmountCents int64
	Quote            *domain.Quote // котировка ровно для текущего выбора
	QuotePending     bool
	QuoteError       string
	StaleBlocks      []domain.Block // блоки, исчезнувшие из расписания после выбора
	RescheduleBlock  *domain.Block
	Reschedule       *domain.RescheduleContext
	LastError        string
	Closed           bool
}

// ConfirmResult результат подтверждения
// Заполнено ровно одно поле в зависимости от режима
type ConfirmResult struct {
	Booking    *create_booking.Response
	Reschedule *reschedule_booking.Response
}
