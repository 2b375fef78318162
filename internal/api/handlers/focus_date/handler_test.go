package focus_date

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session/sessiontest"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

func focus(h *Handler, sessionID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/focus", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"sessionId": sessionID})
	req = sessiontest.WithToken(req, sessiontest.Token)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handlers.SessionResponse {
	t.Helper()
	var resp handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandle_FocusesDate(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())
	h := NewHandler(env.Manager, logger.NewNop())

	rec := focus(h, s.ID(), `{"date":"2024-06-06"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	assert.Equal(t, "2024-06-06", resp.FocusedDate)
	assert.Equal(t, []string{"15:00", "16:00"}, resp.AvailableHours)
}

func TestHandle_FetchFailureKeepsFocus(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())
	h := NewHandler(env.Manager, logger.NewNop())

	env.Agenda.Err = fmt.Errorf("%w: upstream unavailable", domain.ErrFetch)
	rec := focus(h, s.ID(), `{"date":"2024-07-10"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	assert.Equal(t, "2024-07-10", resp.FocusedDate)
	assert.Empty(t, resp.AvailableHours)
	assert.Contains(t, resp.LastError, "upstream unavailable")
}

func TestHandle_Rejects(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())
	h := NewHandler(env.Manager, logger.NewNop())

	assert.Equal(t, http.StatusBadRequest, focus(h, s.ID(), `{"date":"10.07.2024"}`).Code)
	assert.Equal(t, http.StatusBadRequest, focus(h, s.ID(), `not json`).Code)
	assert.Equal(t, http.StatusNotFound, focus(h, "missing", `{"date":"2024-06-06"}`).Code)
}
