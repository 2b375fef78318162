package toggle_hour

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHour        = "некорректный час, ожидается HH:00"
)

type Handler struct {
	sessions SessionProvider
	logger   Logger
}

func NewHandler(sessions SessionProvider, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/hours/toggle
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req ToggleHourRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/hours/toggle - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	hour, err := types.ParseHourString(req.Hour)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/hours/toggle - Invalid hour: %q", req.Hour)
		handlers.RespondBadRequest(w, msgInvalidHour)
		return
	}

	token, _ := middleware.GetToken(r.Context())
	s, err := h.sessions.Get(sessionID, token)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/hours/toggle - Session not found: session_id=%s", sessionID)
		handlers.RespondNotFound(w, handlers.MsgSessionNotFound)
		return
	}

	changed, err := s.ToggleHour(req.Date, hour)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/hours/toggle - Rejected: session_id=%s, date=%s, hour=%s, error=%v",
			sessionID, req.Date, req.Hour, err)
		handlers.RespondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ToggleHourResponse{
		Changed: changed,
		Session: handlers.FromSummary(s.Summary()),
	})
}
