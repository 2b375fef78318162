package get_week

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
)

const (
	msgInvalidSubjectID = "некорректный ID предмета"
	msgInvalidFrom      = "некорректная дата начала недели, ожидается YYYY-MM-DD"
)

type Handler struct {
	loader   WeekLoader
	location *time.Location
	now      func() time.Time
	logger   Logger
}

func NewHandler(loader WeekLoader, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		loader:   loader,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle GET /api/v1/owners/{subjectId}/week?from=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subjectID, err := strconv.ParseInt(mux.Vars(r)["subjectId"], 10, 64)
	if err != nil || subjectID <= 0 {
		h.logger.Warn("GET /owners/{id}/week - Invalid subject ID: %v", mux.Vars(r)["subjectId"])
		handlers.RespondBadRequest(w, msgInvalidSubjectID)
		return
	}

	from := calendar.StartOfDay(h.now().In(h.location))
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err = calendar.ParseDate(fromStr, h.location)
		if err != nil {
			h.logger.Warn("GET /owners/{id}/week - Invalid from: %q", fromStr)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	week, err := h.loader.LoadWeek(r.Context(), subjectID, from)
	if err != nil {
		h.logger.Error("GET /owners/{id}/week - Failed to load week: subject_id=%d, error=%v", subjectID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromWeekSchedule(from, week))
}
