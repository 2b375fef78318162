package domain

import "time"

// Форматы ключей и временных меток
const (
	DateFormat  = "2006-01-02" // YYYY-MM-DD, ключ дня
	MonthFormat = "2006-01"    // YYYY-MM, ключ месяца
	HourFormat  = "15:04"      // HH:MM
)

// Параметры календаря
const (
	GridWeeks = 6
	GridDays  = GridWeeks * 7 // 42 ячейки сетки месяца
	HoursADay = 24
)

// Значения по умолчанию для сессии бронирования
const (
	DefaultQuoteDebounce         = 450 * time.Millisecond
	DefaultRescheduleHours       = 1
	DefaultSessionTTL            = 30 * time.Minute
	MaxRescheduleHours           = 12
	MaxSelectedHoursPerSelection = 200
)

// ISOWeekday возвращает номер дня недели в формате бэкенда (1 = понедельник ... 7 = воскресенье)
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// WeekdayFromISO обратное преобразование для ISOWeekday
func WeekdayFromISO(n int) (time.Weekday, bool) {
	if n < 1 || n > 7 {
		return 0, false
	}
	if n == 7 {
		return time.Sunday, true
	}
	return time.Weekday(n), true
}
