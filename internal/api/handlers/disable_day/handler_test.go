package disable_day

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

type fakeDisabler struct {
	req  *manage_availability.DisableDayRequest
	resp *manage_availability.DisableDayResponse
	err  error
}

func (f *fakeDisabler) DisableDay(_ context.Context, req *manage_availability.DisableDayRequest) (*manage_availability.DisableDayResponse, error) {
	f.req = req
	return f.resp, f.err
}

func disable(h *Handler, subjectID, day, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/owners/"+subjectID+"/days/"+day+"/disable"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"subjectId": subjectID, "dayOfWeek": day})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_DisablesDay(t *testing.T) {
	fake := &fakeDisabler{resp: &manage_availability.DisableDayResponse{Removed: []int64{5, 9}}}
	h := NewHandler(fake, time.UTC, logger.NewNop())

	rec := disable(h, "3", "2", "?from=2024-06-03")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.req)
	assert.Equal(t, int64(3), fake.req.SubjectID)
	assert.Equal(t, 2, fake.req.DayOfWeek)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), fake.req.WeekFrom)

	var resp DisableDayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int64{5, 9}, resp.Removed)
}

func TestHandle_GuardRejections(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"occupied slot", fmt.Errorf("%w: 2024-06-04 10:00 is booked", domain.ErrConflict), http.StatusConflict, msgDayHasBookings},
		{"last day", domain.ErrLastDay, http.StatusConflict, handlers.MsgLastDay},
		{"bad weekday", fmt.Errorf("%w: day of week 9", domain.ErrInvalidInput), http.StatusBadRequest, msgInvalidDayOfWeek},
		{"upstream", fmt.Errorf("%w: timeout", domain.ErrFetch), http.StatusBadGateway, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeDisabler{err: tc.err}, time.UTC, logger.NewNop())
			rec := disable(h, "3", "2", "")
			assert.Equal(t, tc.status, rec.Code)
			if tc.msg != "" {
				assert.Contains(t, rec.Body.String(), tc.msg)
			}
		})
	}
}

func TestHandle_InvalidPath(t *testing.T) {
	fake := &fakeDisabler{}
	h := NewHandler(fake, time.UTC, logger.NewNop())

	assert.Equal(t, http.StatusBadRequest, disable(h, "x", "2", "").Code)
	assert.Equal(t, http.StatusBadRequest, disable(h, "3", "monday", "").Code)
	assert.Equal(t, http.StatusBadRequest, disable(h, "3", "2", "?from=tomorrow").Code)
	assert.Nil(t, fake.req)
}
