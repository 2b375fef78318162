package manage_availability

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// PublishRequest модель запроса на публикацию открытых часов
type PublishRequest struct {
	SubjectID    int64              // ID предмета (для сброса кэша, опционально)
	PreferenceID int64              // ID предпочтений предмета
	DayOfWeek    int                // 1 = понедельник ... 7 = воскресенье
	Hours        []types.HourString // Открытые часы, в любом порядке
}

// PublishResponse модель ответа публикации
type PublishResponse struct {
	Ranges []domain.HourRange // Созданные непрерывные диапазоны
}

// RemoveSlotRequest модель запроса на удаление записи доступности
type RemoveSlotRequest struct {
	SubjectID      int64
	AvailabilityID int64
	WeekFrom       time.Time // Первый день недели, по которой проверяются конфликты
}

// DisableDayRequest модель запроса на выключение дня недели
type DisableDayRequest struct {
	SubjectID int64
	DayOfWeek int // 1 = понедельник ... 7 = воскресенье
	WeekFrom  time.Time
}

// DisableDayResponse модель ответа выключения дня
type DisableDayResponse struct {
	Removed []int64 // Удаленные записи доступности
}
