package focus_date

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle POST /api/v1/sessions/{sessionId}/focus
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req FocusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/focus - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	token, _ := middleware.GetToken(r.Context())
	s, err := h.sessions.Get(sessionID, token)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/focus - Session not found: session_id=%s", sessionID)
		handlers.RespondNotFound(w, handlers.MsgSessionNotFound)
		return
	}

	// Ошибка загрузки месяца не отменяет фокус: пользователь увидит ее в сводке
	if err := s.Focus(r.Context(), req.Date); err != nil {
		status, msg := handlers.StatusFor(err)
		if status != http.StatusBadGateway {
			h.logger.Warn("POST /sessions/{id}/focus - Rejected: session_id=%s, date=%s, error=%v", sessionID, req.Date, err)
			handlers.RespondError(w, status, msg)
			return
		}
		h.logger.Warn("POST /sessions/{id}/focus - Month not loaded: session_id=%s, date=%s, error=%v", sessionID, req.Date, err)
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromSummary(s.Summary()))
}
