package select_reschedule_start

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/service/session/sessiontest"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

func selectStart(h *Handler, sessionID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/reschedule/start", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"sessionId": sessionID})
	req = sessiontest.WithToken(req, sessiontest.Token)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_SelectsBlock(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.RescheduleOptions())
	h := NewHandler(env.Manager, logger.NewNop())

	rec := selectStart(h, s.ID(), `{"date":"2024-06-06","hour":"15:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SelectStartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-06-06", resp.Block.Date)
	assert.Equal(t, 15, resp.Block.StartHour)
	assert.Equal(t, 17, resp.Block.EndHour)
	assert.Equal(t, int64(30), resp.Block.AvailabilityID)
	require.NotNil(t, resp.Session)
	require.NotNil(t, resp.Session.RescheduleBlock)
	assert.Equal(t, 2, resp.Session.TotalHours)
}

func TestHandle_RejectsStart(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.RescheduleOptions())
	h := NewHandler(env.Manager, logger.NewNop())

	// 09:00 не позже окончания текущего занятия
	assert.Equal(t, http.StatusUnprocessableEntity, selectStart(h, s.ID(), `{"date":"2024-06-05","hour":"09:00"}`).Code)
	// 11:00-13:00 не собирается: 12:00 занят
	assert.Equal(t, http.StatusUnprocessableEntity, selectStart(h, s.ID(), `{"date":"2024-06-05","hour":"11:00"}`).Code)
	assert.Equal(t, 0, s.Summary().TotalHours)

	assert.Equal(t, http.StatusBadRequest, selectStart(h, s.ID(), `{"date":"2024-06-05","hour":"eleven"}`).Code)
	assert.Equal(t, http.StatusNotFound, selectStart(h, "missing", `{"date":"2024-06-06","hour":"15:00"}`).Code)
}

func TestHandle_BookingModeConflict(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())

	rec := selectStart(NewHandler(env.Manager, logger.NewNop()), s.ID(), `{"date":"2024-06-06","hour":"15:00"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
