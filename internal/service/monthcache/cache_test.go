package monthcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/slotindex"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

type fakeSource struct {
	mu      sync.Mutex
	calls   int32
	fresh   int32
	err     error
	days    map[string][]domain.DayAgenda // monthKey -> days
	release chan struct{}
	started chan struct{}
}

func (f *fakeSource) GetAgenda(ctx context.Context, _ int64, from, _ time.Time) ([]domain.DayAgenda, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.days[from.Format(domain.MonthFormat)], nil
}

func (f *fakeSource) GetAgendaFresh(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error) {
	atomic.AddInt32(&f.fresh, 1)
	return f.GetAgenda(ctx, subjectID, from, to)
}

func (f *fakeSource) setDays(month string, days []domain.DayAgenda) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days[month] = days
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func availableDay(date string, hour int, id int64) domain.DayAgenda {
	return domain.DayAgenda{
		DateKey: date,
		Slots: []domain.TimeSlot{
			{DateKey: date, Hour: types.MustHour(hour), AvailabilityID: id, Status: domain.SlotAvailable},
		},
	}
}

func newSource() *fakeSource {
	return &fakeSource{days: map[string][]domain.DayAgenda{
		"2024-06": {availableDay("2024-06-10", 9, 1)},
		"2024-07": {availableDay("2024-07-02", 14, 2)},
	}}
}

func june() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
func july() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }

func TestCache_EnsureMonthFetchesOnce(t *testing.T) {
	src := newSource()
	idx := slotindex.New()
	c := New(context.Background(), idx, src, time.UTC, nil, logger.NewNop())

	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))
	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
	assert.Equal(t, []types.HourString{"09:00"}, idx.Hours("2024-06-10"))
}

func TestCache_MarkerSetBeforeFetch(t *testing.T) {
	src := newSource()
	src.release = make(chan struct{})
	src.started = make(chan struct{}, 1)
	c := New(context.Background(), slotindex.New(), src, time.UTC, nil, logger.NewNop())

	done := make(chan error, 1)
	go func() { done <- c.EnsureMonth(context.Background(), 1, june()) }()
	<-src.started

	// Второй вызов во время загрузки не делает запроса
	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))
	close(src.release)

	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestCache_FailureClearsMarker(t *testing.T) {
	src := newSource()
	src.setErr(errors.New("boom"))
	c := New(context.Background(), slotindex.New(), src, time.UTC, nil, logger.NewNop())

	err := c.EnsureMonth(context.Background(), 1, june())
	require.ErrorIs(t, err, domain.ErrFetch)

	src.setErr(nil)
	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestCache_MergeKeepsOtherMonths(t *testing.T) {
	idx := slotindex.New()
	c := New(context.Background(), idx, newSource(), time.UTC, nil, logger.NewNop())

	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))
	require.NoError(t, c.EnsureMonth(context.Background(), 1, july()))

	assert.Equal(t, []string{"2024-06-10", "2024-07-02"}, idx.Dates())
}

func TestCache_ForceRefetchReplacesOnlyThatMonth(t *testing.T) {
	src := newSource()
	idx := slotindex.New()
	c := New(context.Background(), idx, src, time.UTC, nil, logger.NewNop())

	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))
	require.NoError(t, c.EnsureMonth(context.Background(), 1, july()))
	assert.Equal(t, int32(0), atomic.LoadInt32(&src.fresh))

	src.setDays("2024-06", []domain.DayAgenda{availableDay("2024-06-20", 16, 3)})
	require.NoError(t, c.ForceRefetch(context.Background(), 1, june()))

	assert.Equal(t, []string{"2024-06-20", "2024-07-02"}, idx.Dates())
	assert.Empty(t, idx.Hours("2024-06-10"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&src.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.fresh))
}

func TestCache_MarkerUsesCacheLocation(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	src := newSource()
	idx := slotindex.New()
	c := New(context.Background(), idx, src, msk, nil, logger.NewNop())

	// 2024-06-30 23:30 UTC это уже 1 июля по Москве: загружается июль
	require.NoError(t, c.EnsureMonth(context.Background(), 1, time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC)))
	assert.Equal(t, []string{"2024-07-02"}, idx.Dates())

	require.NoError(t, c.EnsureMonth(context.Background(), 1, time.Date(2024, 6, 20, 12, 0, 0, 0, msk)))
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
	assert.Equal(t, []types.HourString{"09:00"}, idx.Hours("2024-06-10"))

	// Тот же июль, переданный в другой зоне, не загружается повторно
	require.NoError(t, c.EnsureMonth(context.Background(), 1, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestCache_OnMergedHook(t *testing.T) {
	c := New(context.Background(), slotindex.New(), newSource(), time.UTC, nil, logger.NewNop())

	var merged []string
	c.OnMerged(func(subjectID int64, monthKey string) {
		merged = append(merged, monthKey)
	})

	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))
	require.NoError(t, c.EnsureMonth(context.Background(), 1, june()))
	assert.Equal(t, []string{"2024-06"}, merged)
}

func TestCache_CloseDiscardsLateResult(t *testing.T) {
	src := newSource()
	src.release = make(chan struct{})
	src.started = make(chan struct{}, 1)
	idx := slotindex.New()
	c := New(context.Background(), idx, src, time.UTC, nil, logger.NewNop())

	hookCalled := false
	c.OnMerged(func(int64, string) { hookCalled = true })

	done := make(chan error, 1)
	go func() { done <- c.EnsureMonth(context.Background(), 1, june()) }()
	<-src.started
	c.Close()

	err := <-done
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.Empty(t, idx.Dates())
	assert.False(t, hookCalled)

	assert.ErrorIs(t, c.EnsureMonth(context.Background(), 1, july()), domain.ErrSessionClosed)
}
