package create_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMonth       = "некорректный месяц, ожидается YYYY-MM"
	msgInvalidReschedule  = "некорректные время текущего занятия, ожидается RFC3339"
	msgMissingToken       = "отсутствует токен авторизации"
)

type Handler struct {
	creator  SessionCreator
	defaults Defaults
	logger   Logger
}

func NewHandler(creator SessionCreator, defaults Defaults, logger Logger) *Handler {
	return &Handler{
		creator:  creator,
		defaults: defaults,
		logger:   logger,
	}
}

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	opts, err := req.ToOptions(h.defaults)
	if err != nil {
		h.logger.Warn("POST /sessions - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidMonth) {
			handlers.RespondBadRequest(w, msgInvalidMonth)
		} else {
			handlers.RespondBadRequest(w, msgInvalidReschedule)
		}
		return
	}

	token, ok := middleware.GetToken(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions - Missing token")
		handlers.RespondUnauthorized(w, msgMissingToken)
		return
	}
	opts.Auth = auth.Static(token)

	s, err := h.creator.Create(r.Context(), opts)
	if err != nil {
		status, msg := handlers.StatusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /sessions - Failed to create session: subject_id=%d, error=%v", req.SubjectID, err)
		} else {
			h.logger.Warn("POST /sessions - Rejected: subject_id=%d, mode=%s, error=%v", req.SubjectID, req.Mode, err)
		}
		handlers.RespondError(w, status, msg)
		return
	}

	h.logger.Info("POST /sessions - Session created: session_id=%s, subject_id=%d, mode=%s",
		s.ID(), req.SubjectID, s.Mode())
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromSummary(s.Summary()))
}
