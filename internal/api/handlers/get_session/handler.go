package get_session

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
)

type Handler struct {
	sessions SessionProvider
	history  SubmissionHistory
	logger   Logger
}

// NewHandler создает обработчик сводки сессии
// history может быть nil, если журнал отправок выключен
func NewHandler(sessions SessionProvider, history SubmissionHistory, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		history:  history,
		logger:   logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	token, _ := middleware.GetToken(r.Context())
	s, err := h.sessions.Get(sessionID, token)
	if err != nil {
		h.logger.Warn("GET /sessions/{id} - Session not found: session_id=%s", sessionID)
		handlers.RespondNotFound(w, handlers.MsgSessionNotFound)
		return
	}

	resp := handlers.FromSummary(s.Summary())

	// Журнал не обязателен для сводки: при ошибке отдаем ее без истории
	if h.history != nil {
		list, err := h.history.ListBySession(r.Context(), sessionID)
		if err != nil {
			h.logger.Error("GET /sessions/{id} - Failed to load submission history: session_id=%s, error=%v", sessionID, err)
		} else {
			resp.Submissions = handlers.FromSubmissions(list)
		}
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
