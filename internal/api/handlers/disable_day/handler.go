package disable_day

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
)

const (
	msgInvalidSubjectID = "некорректный ID предмета"
	msgInvalidDayOfWeek = "некорректный день недели, ожидается число от 1 до 7"
	msgInvalidFrom      = "некорректная дата начала недели, ожидается YYYY-MM-DD"
	msgDayHasBookings   = "в этот день есть бронирования, выключить его нельзя"
)

type Handler struct {
	disabler DayDisabler
	location *time.Location
	now      func() time.Time
	logger   Logger
}

func NewHandler(disabler DayDisabler, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		disabler: disabler,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle POST /api/v1/owners/{subjectId}/days/{dayOfWeek}/disable?from=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	subjectID, err := strconv.ParseInt(vars["subjectId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /owners/{id}/days/{day}/disable - Invalid subject ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubjectID)
		return
	}

	dayOfWeek, err := strconv.Atoi(vars["dayOfWeek"])
	if err != nil {
		h.logger.Warn("POST /owners/{id}/days/{day}/disable - Invalid day of week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	from := calendar.StartOfDay(h.now().In(h.location))
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err = calendar.ParseDate(fromStr, h.location)
		if err != nil {
			h.logger.Warn("POST /owners/{id}/days/{day}/disable - Invalid from: %q", fromStr)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	result, err := h.disabler.DisableDay(r.Context(), &manage_availability.DisableDayRequest{
		SubjectID: subjectID,
		DayOfWeek: dayOfWeek,
		WeekFrom:  from,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /owners/{id}/days/{day}/disable - Day has bookings: subject_id=%d, day=%d", subjectID, dayOfWeek)
			handlers.RespondConflict(w, msgDayHasBookings)

		case errors.Is(err, domain.ErrLastDay):
			h.logger.Warn("POST /owners/{id}/days/{day}/disable - Last enabled day: subject_id=%d, day=%d", subjectID, dayOfWeek)
			handlers.RespondConflict(w, handlers.MsgLastDay)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /owners/{id}/days/{day}/disable - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDayOfWeek)

		default:
			h.logger.Error("POST /owners/{id}/days/{day}/disable - Failed: subject_id=%d, day=%d, error=%v", subjectID, dayOfWeek, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("POST /owners/{id}/days/{day}/disable - Day disabled: subject_id=%d, day=%d, removed=%d",
		subjectID, dayOfWeek, len(result.Removed))
	handlers.RespondJSON(w, http.StatusOK, DisableDayResponse{Removed: result.Removed})
}
