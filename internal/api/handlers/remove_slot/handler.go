package remove_slot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
)

const (
	msgInvalidSubjectID      = "некорректный ID предмета"
	msgInvalidAvailabilityID = "некорректный ID записи доступности"
	msgInvalidFrom           = "некорректная дата начала недели, ожидается YYYY-MM-DD"
	msgSlotBooked            = "этот час уже забронирован, удалить его нельзя"
	msgSlotNotFound          = "запись доступности не найдена в выбранной неделе"
)

type Handler struct {
	remover  SlotRemover
	location *time.Location
	now      func() time.Time
	logger   Logger
}

func NewHandler(remover SlotRemover, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		remover:  remover,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle DELETE /api/v1/owners/{subjectId}/slots/{availabilityId}?from=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	subjectID, err := strconv.ParseInt(vars["subjectId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /owners/{id}/slots/{slotId} - Invalid subject ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubjectID)
		return
	}

	availabilityID, err := strconv.ParseInt(vars["availabilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /owners/{id}/slots/{slotId} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	from := calendar.StartOfDay(h.now().In(h.location))
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err = calendar.ParseDate(fromStr, h.location)
		if err != nil {
			h.logger.Warn("DELETE /owners/{id}/slots/{slotId} - Invalid from: %q", fromStr)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	err = h.remover.RemoveSlot(r.Context(), &manage_availability.RemoveSlotRequest{
		SubjectID:      subjectID,
		AvailabilityID: availabilityID,
		WeekFrom:       from,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("DELETE /owners/{id}/slots/{slotId} - Slot booked: subject_id=%d, availability_id=%d", subjectID, availabilityID)
			handlers.RespondConflict(w, msgSlotBooked)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("DELETE /owners/{id}/slots/{slotId} - Not found: subject_id=%d, availability_id=%d", subjectID, availabilityID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("DELETE /owners/{id}/slots/{slotId} - Failed: subject_id=%d, availability_id=%d, error=%v",
				subjectID, availabilityID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("DELETE /owners/{id}/slots/{slotId} - Slot removed: subject_id=%d, availability_id=%d", subjectID, availabilityID)
	handlers.RespondNoContent(w)
}
