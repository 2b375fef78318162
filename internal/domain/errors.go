package domain

import "errors"

// Таксономия ошибок движка слотов
// Ни одна из них не фатальна для процесса: все сводятся к сообщению пользователю
var (
	// ErrFetch ошибка загрузки месяца или некорректный ответ бэкенда
	// Повторяется прозрачно при следующем просмотре
	ErrFetch = errors.New("availability fetch failed")

	// ErrConflict действие затрагивает уже забронированный слот
	ErrConflict = errors.New("action conflicts with an existing booking")

	// ErrLastDay действие оставит неделю без включенных дней
	ErrLastDay = errors.New("at least one day must remain enabled")

	// ErrIncompleteBlock в выбранном дне нет непрерывного блока нужной длины
	ErrIncompleteBlock = errors.New("requested block is not fully available")

	// ErrNotAfterBoundary новый блок начинается не позже окончания текущего бронирования
	ErrNotAfterBoundary = errors.New("new block must start after the current booking ends")

	// ErrStaleSelection выбранный ранее слот исчез между выбором и подтверждением
	ErrStaleSelection = errors.New("selected slot is no longer available")

	// ErrQuote ошибка котировки (не фатальна, используется фиксированная ставка)
	ErrQuote = errors.New("quote request failed")

	// ErrSubmission ошибка отправки бронирования или переноса
	ErrSubmission = errors.New("submission failed")

	// ErrEmptySelection попытка подтвердить пустой выбор
	ErrEmptySelection = errors.New("no hours selected")

	// ErrSessionClosed сессия бронирования уже закрыта
	ErrSessionClosed = errors.New("booking session is closed")

	// ErrInvalidTransition недопустимый переход состояния окна бронирования
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// ErrUnauthenticated действие требует авторизованной сессии
	ErrUnauthenticated = errors.New("authenticated session required")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")
)
