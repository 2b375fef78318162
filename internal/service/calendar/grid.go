package calendar

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Grid сетка месяца: 6 недель по 7 дней, неделя начинается с воскресенья
type Grid [domain.GridDays]time.Time

// BuildMonthGrid строит сетку для месяца, в котором находится ref
// День месяца в ref игнорируется. Первая ячейка - воскресенье на или перед 1-м числом,
// все даты усечены до полуночи в локации ref
func BuildMonthGrid(ref time.Time) Grid {
	first := FirstOfMonth(ref)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	var grid Grid
	for i := range grid {
		// AddDate, а не Add(24h): сутки при переходе на летнее время короче или длиннее
		grid[i] = start.AddDate(0, 0, i)
	}
	return grid
}

// FirstOfMonth возвращает полночь 1-го числа месяца
func FirstOfMonth(ref time.Time) time.Time {
	y, m, _ := ref.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
}

// MonthRange возвращает первый и последний день месяца
func MonthRange(ref time.Time) (time.Time, time.Time) {
	first := FirstOfMonth(ref)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// InMonth проверяет, что day относится к месяцу ref
func InMonth(day, ref time.Time) bool {
	y1, m1, _ := day.Date()
	y2, m2, _ := ref.Date()
	return y1 == y2 && m1 == m2
}

// StartOfDay усекает момент до полуночи
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey возвращает ключ дня "YYYY-MM-DD"
func DateKey(t time.Time) string {
	return t.Format(domain.DateFormat)
}

// MonthKey возвращает ключ месяца "YYYY-MM"
func MonthKey(t time.Time) string {
	return t.Format(domain.MonthFormat)
}

// ParseMonth разбирает ключ месяца "YYYY-MM"
func ParseMonth(monthKey string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.MonthFormat, monthKey, loc)
}

// ParseDate разбирает ключ дня "YYYY-MM-DD"
func ParseDate(dateKey string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, dateKey, loc)
}
