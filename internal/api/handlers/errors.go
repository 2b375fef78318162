package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
)

// Сообщения пользователю для ошибок движка слотов
const (
	MsgInvalidInput      = "некорректные входные данные"
	MsgConflict          = "действие затрагивает уже забронированное время"
	MsgLastDay           = "должен остаться хотя бы один включенный день"
	MsgIncompleteBlock   = "выбранное время недоступно целиком, выберите другое начало"
	MsgNotAfterBoundary  = "новое время должно начинаться после окончания текущего занятия"
	MsgStaleSelection    = "часть выбранного времени больше недоступна, обновите выбор"
	MsgEmptySelection    = "не выбрано ни одного часа"
	MsgSessionNotFound   = "сессия бронирования не найдена или уже закрыта"
	MsgInvalidTransition = "действие недоступно на текущем шаге бронирования"
	MsgWrongMode         = "действие недоступно в этом режиме бронирования"
	MsgFetchFailed       = "не удалось загрузить расписание, попробуйте позже"
	MsgSubmissionFailed  = "не удалось отправить бронирование, попробуйте позже"
	MsgUnauthenticated   = "требуется авторизация"
)

// StatusFor сопоставляет ошибку движка HTTP статусу и сообщению пользователю
// Ошибка котировки сюда не попадает: она отдается только в сводке сессии
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, MsgInvalidInput
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, MsgUnauthenticated
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, MsgConflict
	case errors.Is(err, domain.ErrLastDay):
		return http.StatusConflict, MsgLastDay
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, MsgInvalidTransition
	case errors.Is(err, session.ErrWrongMode):
		return http.StatusConflict, MsgWrongMode
	case errors.Is(err, domain.ErrIncompleteBlock):
		return http.StatusUnprocessableEntity, MsgIncompleteBlock
	case errors.Is(err, domain.ErrNotAfterBoundary):
		return http.StatusUnprocessableEntity, MsgNotAfterBoundary
	case errors.Is(err, domain.ErrStaleSelection):
		return http.StatusUnprocessableEntity, MsgStaleSelection
	case errors.Is(err, domain.ErrEmptySelection):
		return http.StatusUnprocessableEntity, MsgEmptySelection
	case errors.Is(err, domain.ErrSessionClosed), errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, MsgSessionNotFound
	case errors.Is(err, domain.ErrFetch):
		return http.StatusBadGateway, MsgFetchFailed
	case errors.Is(err, domain.ErrSubmission):
		return http.StatusBadGateway, MsgSubmissionFailed
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// RespondDomainError отправляет ошибку движка с подходящим статусом
func RespondDomainError(w http.ResponseWriter, err error) {
	status, message := StatusFor(err)
	RespondError(w, status, message)
}
