package close_session

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
)

type Handler struct {
	sessions SessionCloser
	logger   Logger
}

func NewHandler(sessions SessionCloser, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Handle DELETE /api/v1/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	token, _ := middleware.GetToken(r.Context())

	if err := h.sessions.Close(sessionID, token); err != nil {
		h.logger.Warn("DELETE /sessions/{id} - Session not found: session_id=%s", sessionID)
		handlers.RespondNotFound(w, handlers.MsgSessionNotFound)
		return
	}

	h.logger.Info("DELETE /sessions/{id} - Session closed: session_id=%s", sessionID)
	handlers.RespondNoContent(w)
}
