package tutorapi

// AgendaResponse ответ GET /agenda/{subjectId}
type AgendaResponse struct {
	Days []AgendaDay `json:"days"`
}

// AgendaDay расписание одного дня
type AgendaDay struct {
	Date    string       `json:"date"`
	DayName string       `json:"dayName"`
	Slots   []AgendaSlot `json:"slots"`
}

// AgendaSlot один час расписания
type AgendaSlot struct {
	StartTime      string `json:"startTime"`
	Status         string `json:"status"`
	AvailabilityID *int64 `json:"availabilityId"`
}

// CreateAvailabilityRequest тело POST /availability
type CreateAvailabilityRequest struct {
	SubjectPreferenceID int64  `json:"subjectPreferenceId"`
	DayOfWeek           int    `json:"dayOfWeek"` // 1 = понедельник ... 7 = воскресенье
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
}

// StatusResponse ответ операций, возвращающих success + message
type StatusResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// QuoteItem элемент котировки/бронирования
type QuoteItem struct {
	AvailabilityID int64  `json:"availabilityId"`
	StartTime      string `json:"startTime"` // RFC3339
	EndTime        string `json:"endTime"`   // RFC3339
}

// QuoteRequest тело POST /booking/quote
type QuoteRequest struct {
	Items []QuoteItem `json:"items"`
}

// PricingPolicy глобальная ценовая политика
type PricingPolicy struct {
	BaseHours      int    `json:"baseHours"`
	BaseRateCents  int64  `json:"baseRateCents"`
	ExtraRateCents int64  `json:"extraRateCents"`
	Description    string `json:"description"`
}

// QuoteBlock стоимость одного блока
type QuoteBlock struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Hours       int    `json:"hours"`
	AmountCents int64  `json:"amountCents"`
}

// QuoteResponse ответ POST /booking/quote
// TotalAmount указан в центах
type QuoteResponse struct {
	TotalAmount         *int64         `json:"totalAmount"`
	GlobalPricingPolicy *PricingPolicy `json:"globalPricingPolicy,omitempty"`
	Blocks              []QuoteBlock   `json:"blocks"`
}

// CreateBookingRequest тело POST /booking
type CreateBookingRequest struct {
	AvailabilityID  int64       `json:"availabilityId"`
	PriceID         string      `json:"priceId"`
	StartTime       string      `json:"startTime"`
	EndTime         string      `json:"endTime"`
	TotalHours      int         `json:"totalHours"`
	AvailabilityIDs []int64     `json:"availabilityIds"`
	Items           []QuoteItem `json:"items"`
}

// CreateBookingResponse ответ POST /booking
type CreateBookingResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// RescheduleRequest тело POST /booking/reschedule
type RescheduleRequest struct {
	BookingID int64       `json:"bookingId"`
	Items     []QuoteItem `json:"items"`
}

// ErrorResponse модель ошибки бэкенда
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
