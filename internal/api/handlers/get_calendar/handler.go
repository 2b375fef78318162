package get_calendar

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
)

const (
	msgInvalidMonth = "некорректный месяц, ожидается YYYY-MM"
)

type Handler struct {
	location *time.Location
	now      func() time.Time
	logger   Logger
}

func NewHandler(location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle GET /api/v1/calendar?month=YYYY-MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref := h.now().In(h.location)

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := calendar.ParseMonth(monthStr, h.location)
		if err != nil {
			h.logger.Warn("GET /calendar - Invalid month: %q", monthStr)
			handlers.RespondBadRequest(w, msgInvalidMonth)
			return
		}
		ref = month
	}

	grid := calendar.BuildMonthGrid(ref)
	handlers.RespondJSON(w, http.StatusOK, FromGrid(ref, grid))
}
