package create_booking

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/blocks"
)

// Цена, с которой отправляется бронирование
const (
	PriceIDQuote  = "quote"  // итог котировки
	PriceIDHourly = "hourly" // фиксированная ставка за час
)

// Request модель запроса на создание бронирования из выбранных часов
type Request struct {
	SessionID       string                // ID сессии бронирования
	SubjectID       int64                 // ID предмета
	Selections      []domain.DaySelection // Выбранные часы по датам
	Slots           blocks.SlotResolver   // Индекс слотов сессии
	Location        *time.Location        // Часовой пояс календаря
	HourlyRateCents int64                 // Ставка за час, если котировки нет
	Quote           *domain.Quote         // Последняя котировка сессии (опционально)
}

// Response модель ответа с результатом бронирования
type Response struct {
	RedirectURL      string         // URL перехода к оплате
	TotalAmountCents int64          // Итоговая сумма
	TotalHours       int            // Количество часов
	PriceID          string         // Источник цены: quote или hourly
	Blocks           []domain.Block // Отправленные блоки
	Resumed          bool           // Повторная отправка уже успешного набора
}
