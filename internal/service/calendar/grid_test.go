package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "month starting on wednesday",
			ref:       time.Date(2024, 5, 17, 13, 45, 0, 0, time.UTC),
			wantFirst: time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month starting on sunday",
			ref:       time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
			wantFirst: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "february of leap year",
			ref:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantFirst: time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := BuildMonthGrid(tt.ref)

			require.Len(t, grid, 42)
			assert.Equal(t, tt.wantFirst, grid[0])
			assert.Equal(t, tt.wantLast, grid[41])
			assert.Equal(t, time.Sunday, grid[0].Weekday())

			first := FirstOfMonth(tt.ref)
			assert.False(t, grid[0].After(first))
			assert.False(t, grid[41].Before(first))
		})
	}
}

func TestBuildMonthGrid_ConsecutiveMidnights(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Skip("tzdata not available")
	}
	grid := BuildMonthGrid(time.Date(2024, 3, 10, 18, 0, 0, 0, loc))

	for i, day := range grid {
		assert.Equal(t, 0, day.Hour(), "cell %d", i)
		assert.Equal(t, loc, day.Location())
		if i > 0 {
			assert.Equal(t, grid[i-1].AddDate(0, 0, 1), day)
		}
	}
}

func TestMonthHelpers(t *testing.T) {
	ref := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)

	first, last := MonthRange(ref)
	assert.Equal(t, "2024-02-01", DateKey(first))
	assert.Equal(t, "2024-02-29", DateKey(last))
	assert.Equal(t, "2024-02", MonthKey(ref))
	assert.True(t, InMonth(last, ref))
	assert.False(t, InMonth(last.AddDate(0, 0, 1), ref))

	parsed, err := ParseMonth("2024-06", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), parsed)
}
