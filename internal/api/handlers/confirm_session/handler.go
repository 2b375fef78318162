package confirm_session

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
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

// Handle POST /api/v1/sessions/{sessionId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	token, _ := middleware.GetToken(r.Context())
	s, err := h.sessions.Get(sessionID, token)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/confirm - Session not found: session_id=%s", sessionID)
		handlers.RespondNotFound(w, handlers.MsgSessionNotFound)
		return
	}

	result, err := s.Confirm(r.Context())
	if err != nil {
		status, msg := handlers.StatusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /sessions/{id}/confirm - Failed: session_id=%s, error=%v", sessionID, err)
		} else {
			h.logger.Warn("POST /sessions/{id}/confirm - Rejected: session_id=%s, error=%v", sessionID, err)
		}
		handlers.RespondError(w, status, msg)
		return
	}

	h.logger.Info("POST /sessions/{id}/confirm - Confirmed: session_id=%s, mode=%s", sessionID, s.Mode())
	handlers.RespondJSON(w, http.StatusOK, FromConfirmResult(result))
}
