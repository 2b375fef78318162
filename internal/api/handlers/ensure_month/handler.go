package ensure_month

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMonth       = "некорректный месяц, ожидается YYYY-MM"
)

type Handler struct {
	sessions SessionProvider
	location *time.Location
	logger   Logger
}

func NewHandler(sessions SessionProvider, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		sessions: sessions,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/months
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req EnsureMonthRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/months - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	month, err := calendar.ParseMonth(req.Month, h.location)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/months - Invalid month: %q", req.Month)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	token, _ := middleware.GetToken(r.Context())
	s, err := h.sessions.Get(sessionID, token)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/months - Session not found: session_id=%s", sessionID)
		handlers.RespondNotFound(w, handlers.MsgSessionNotFound)
		return
	}

	if err := s.EnsureMonth(r.Context(), month, req.Force); err != nil {
		h.logger.Warn("POST /sessions/{id}/months - Failed: session_id=%s, month=%s, error=%v", sessionID, req.Month, err)
		handlers.RespondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromSummary(s.Summary()))
}
