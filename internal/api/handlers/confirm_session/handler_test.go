package confirm_session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session/sessiontest"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

func confirm(h *Handler, sessionID string) *httptest.ResponseRecorder {
	return confirmAs(h, sessiontest.Token, sessionID)
}

func confirmAs(h *Handler, token, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/confirm", nil)
	req = mux.SetURLVars(req, map[string]string{"sessionId": sessionID})
	req = sessiontest.WithToken(req, token)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ConfirmsBooking(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())
	_, err := s.ToggleHour("2024-06-05", "09:00")
	require.NoError(t, err)
	_, err = s.ToggleHour("2024-06-05", "10:00")
	require.NoError(t, err)

	h := NewHandler(env.Manager, logger.NewNop())
	rec := confirm(h, s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConfirmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://pay.example.com/checkout/42", resp.RedirectURL)
	assert.Equal(t, 2, resp.TotalHours)
	assert.Equal(t, int64(6000), resp.TotalAmountCents)

	// Подтвержденная сессия закрыта
	assert.Equal(t, http.StatusNotFound, confirm(h, s.ID()).Code)
}

func TestHandle_ConfirmsReschedule(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.RescheduleOptions())
	_, err := s.SelectRescheduleStart("2024-06-06", "15:00")
	require.NoError(t, err)

	rec := confirm(NewHandler(env.Manager, logger.NewNop()), s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConfirmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(55), resp.BookingID)
	assert.Equal(t, "2024-06-06T15:00:00Z", resp.Start)
	assert.Equal(t, "2024-06-06T17:00:00Z", resp.End)
}

func TestHandle_EmptySelection(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())

	rec := confirm(NewHandler(env.Manager, logger.NewNop()), s.ID())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandle_SubmissionFailure(t *testing.T) {
	env := sessiontest.New(t)
	env.Bookings.Err = fmt.Errorf("%w: upstream 503", domain.ErrSubmission)
	s := env.Open(t, sessiontest.BookingOptions())
	_, err := s.ToggleHour("2024-06-05", "11:00")
	require.NoError(t, err)

	h := NewHandler(env.Manager, logger.NewNop())
	assert.Equal(t, http.StatusBadGateway, confirm(h, s.ID()).Code)
	assert.False(t, s.Closed())
	assert.Contains(t, s.Summary().LastError, "upstream 503")
}

func TestHandle_UnknownSession(t *testing.T) {
	env := sessiontest.New(t)
	assert.Equal(t, http.StatusNotFound, confirm(NewHandler(env.Manager, logger.NewNop()), "missing").Code)
}

func TestHandle_SessionOfAnotherUser(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())
	_, err := s.ToggleHour("2024-06-05", "09:00")
	require.NoError(t, err)
	h := NewHandler(env.Manager, logger.NewNop())

	rec := confirmAs(h, "another-student", s.ID())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, env.Bookings.Last)
	assert.False(t, s.Closed())

	// Владелец подтверждает как обычно
	assert.Equal(t, http.StatusOK, confirm(h, s.ID()).Code)
}
