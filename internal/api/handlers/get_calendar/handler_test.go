package get_calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

func TestHandle_ExplicitMonth(t *testing.T) {
	h := NewHandler(time.UTC, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar?month=2024-06", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CalendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-06", resp.Month)
	require.Len(t, resp.Days, 42)
	assert.Equal(t, "2024-05-26", resp.Days[0].Date)
	assert.False(t, resp.Days[0].InMonth)
	assert.Equal(t, 0, resp.Days[0].Weekday)
	assert.Equal(t, "2024-06-01", resp.Days[6].Date)
	assert.True(t, resp.Days[6].InMonth)
	assert.Equal(t, "2024-07-06", resp.Days[41].Date)
}

func TestHandle_DefaultsToCurrentMonth(t *testing.T) {
	h := NewHandler(time.UTC, logger.NewNop())
	h.now = func() time.Time { return time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CalendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-02", resp.Month)
	assert.Equal(t, "2025-01-26", resp.Days[0].Date)
}

func TestHandle_InvalidMonth(t *testing.T) {
	h := NewHandler(time.UTC, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar?month=june", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
