package publish_hours

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidPreferenceID = "некорректный ID предпочтений"
	msgInvalidHour         = "некорректный час, ожидается HH:00"
	msgPublishFailed       = "не удалось сохранить расписание, попробуйте позже"
)

type Handler struct {
	publisher HoursPublisher
	logger    Logger
}

func NewHandler(publisher HoursPublisher, logger Logger) *Handler {
	return &Handler{
		publisher: publisher,
		logger:    logger,
	}
}

// Handle POST /api/v1/owners/preferences/{preferenceId}/hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	preferenceID, err := strconv.ParseInt(mux.Vars(r)["preferenceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /owners/preferences/{id}/hours - Invalid preference ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPreferenceID)
		return
	}

	var req PublishHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /owners/preferences/{id}/hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(preferenceID)
	if err != nil {
		h.logger.Warn("POST /owners/preferences/{id}/hours - Invalid hour: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHour)
		return
	}

	result, err := h.publisher.PublishHours(r.Context(), useCaseReq)
	if err != nil {
		status, msg := handlers.StatusFor(err)
		if status == http.StatusBadGateway {
			msg = msgPublishFailed
			h.logger.Error("POST /owners/preferences/{id}/hours - Failed: preference_id=%d, error=%v", preferenceID, err)
		} else {
			h.logger.Warn("POST /owners/preferences/{id}/hours - Rejected: preference_id=%d, error=%v", preferenceID, err)
		}
		handlers.RespondError(w, status, msg)
		return
	}

	h.logger.Info("POST /owners/preferences/{id}/hours - Published: preference_id=%d, day=%d, ranges=%d",
		preferenceID, req.DayOfWeek, len(result.Ranges))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
