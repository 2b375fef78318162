package get_session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session/sessiontest"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

type fakeHistory struct {
	sessionID string
	list      []*domain.Submission
	err       error
}

func (f *fakeHistory) ListBySession(_ context.Context, sessionID string) ([]*domain.Submission, error) {
	f.sessionID = sessionID
	return f.list, f.err
}

func get(h *Handler, sessionID string) *httptest.ResponseRecorder {
	return getAs(h, sessiontest.Token, sessionID)
}

func getAs(h *Handler, token, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	req = mux.SetURLVars(req, map[string]string{"sessionId": sessionID})
	req = sessiontest.WithToken(req, token)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ReturnsSummary(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())
	_, err := s.ToggleHour("2024-06-05", "09:00")
	require.NoError(t, err)
	_, err = s.ToggleHour("2024-06-05", "11:00")
	require.NoError(t, err)

	rec := get(NewHandler(env.Manager, nil, logger.NewNop()), s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, s.ID(), resp.ID)
	assert.Equal(t, int64(7), resp.SubjectID)
	assert.Equal(t, 2, resp.TotalHours)
	require.Len(t, resp.Selections, 1)
	assert.Equal(t, "2024-06-05", resp.Selections[0].Date)
	assert.Equal(t, []string{"09:00", "11:00"}, resp.Selections[0].Hours)
	assert.False(t, resp.Closed)
	assert.Empty(t, resp.Submissions)
}

func TestHandle_IncludesSubmissionHistory(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())

	message := "upstream 503"
	history := &fakeHistory{list: []*domain.Submission{{
		ID:               4,
		SessionID:        s.ID(),
		Kind:             domain.SubmissionBooking,
		TotalHours:       2,
		TotalAmountCents: 6000,
		Status:           domain.SubmissionFailed,
		ErrorMessage:     &message,
		CreatedAt:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}}}

	rec := get(NewHandler(env.Manager, history, logger.NewNop()), s.ID())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, s.ID(), history.sessionID)

	var resp handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Submissions, 1)
	assert.Equal(t, int64(4), resp.Submissions[0].ID)
	assert.Equal(t, "booking", resp.Submissions[0].Kind)
	assert.Equal(t, "failed", resp.Submissions[0].Status)
	require.NotNil(t, resp.Submissions[0].Error)
	assert.Equal(t, message, *resp.Submissions[0].Error)
	assert.Equal(t, "2024-06-01T12:00:00Z", resp.Submissions[0].CreatedAt)
}

func TestHandle_HistoryFailureKeepsSummary(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())

	history := &fakeHistory{err: errors.New("connection refused")}
	rec := get(NewHandler(env.Manager, history, logger.NewNop()), s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, s.ID(), resp.ID)
	assert.Empty(t, resp.Submissions)
}

func TestHandle_SessionOfAnotherUser(t *testing.T) {
	env := sessiontest.New(t)
	s := env.Open(t, sessiontest.BookingOptions())

	rec := getAs(NewHandler(env.Manager, nil, logger.NewNop()), "another-student", s.ID())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), s.ID())
}

func TestHandle_NotFound(t *testing.T) {
	env := sessiontest.New(t)
	rec := get(NewHandler(env.Manager, nil, logger.NewNop()), "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), handlers.MsgSessionNotFound)
}
