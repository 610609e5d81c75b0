package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestActivityLevel(t *testing.T) {
	counts := []int{0, 1, 2, 3, 4, 5, 10}
	want := []int{0, 1, 2, 3, 3, 4, 4}
	for i, c := range counts {
		assert.Equal(t, want[i], ActivityLevel(c), "count %d", c)
	}
}

func TestStreak(t *testing.T) {
	today := day(2024, time.March, 1)
	counts := map[int64]int{
		DayKey(today):                   3,
		DayKey(today.AddDate(0, 0, -1)): 1,
		DayKey(today.AddDate(0, 0, -2)): 0,
		DayKey(today.AddDate(0, 0, -3)): 4,
		DayKey(today.AddDate(0, 0, 1)):  2,
	}
	assert.Equal(t, 2, Streak(counts, today))
	assert.Equal(t, 0, Streak(counts, today.AddDate(0, 0, -2)))
	assert.Equal(t, 0, Streak(nil, today))
}

func TestBuildHeatmapWindow(t *testing.T) {
	asOf := day(2024, time.March, 15)
	hm := BuildHeatmap(nil, asOf)

	assert.Equal(t, "2023-04-01", hm.Start)
	assert.Equal(t, "2024-03-31", hm.End)
	require.Len(t, hm.Months, 12)
	assert.Equal(t, time.April, hm.Months[0].Month)
	assert.Equal(t, 2023, hm.Months[0].Year)
	assert.Equal(t, time.March, hm.Months[11].Month)

	for _, m := range hm.Months {
		assert.Zero(t, len(m.Cells)%7, "%s %d", m.Month, m.Year)
		for _, week := range m.Weeks() {
			assert.Len(t, week, 7)
		}
	}
}

func TestBuildHeatmapPadding(t *testing.T) {
	// February 2024 starts on a Thursday and has 29 days.
	hm := BuildHeatmap(nil, day(2024, time.February, 10))
	feb := hm.Months[11]

	for i := 0; i < 4; i++ {
		assert.Nil(t, feb.Cells[i])
	}
	require.NotNil(t, feb.Cells[4])
	assert.Equal(t, "2024-02-01", feb.Cells[4].Date)
	assert.Len(t, feb.Cells, 35)
	assert.Equal(t, "2024-02-29", feb.Cells[32].Date)
	assert.Nil(t, feb.Cells[33])
	assert.Nil(t, feb.Cells[34])
}

func TestBuildHeatmapLevelsAndFuture(t *testing.T) {
	asOf := day(2024, time.March, 15)
	counts := map[int64]int{
		DayKey(asOf):                   5,
		DayKey(asOf.AddDate(0, 0, -1)): 2,
		DayKey(asOf.AddDate(0, 0, 3)):  7,
	}
	hm := BuildHeatmap(counts, asOf)
	march := hm.Months[11]

	cells := map[string]*HeatmapCell{}
	for _, c := range march.Cells {
		if c != nil {
			cells[c.Date] = c
		}
	}

	assert.Equal(t, 4, cells["2024-03-15"].Level)
	assert.Equal(t, 2, cells["2024-03-14"].Level)
	assert.False(t, cells["2024-03-15"].Future)

	future := cells["2024-03-18"]
	assert.True(t, future.Future)
	assert.Equal(t, LevelFuture, future.Level)
	assert.Zero(t, future.Count)

	assert.Equal(t, 7, hm.TotalRevisions)
	assert.Equal(t, 2, hm.ActiveDays)
	assert.Equal(t, 2, hm.Streak)
}

func TestDayKeyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2024, time.January, 2, 1, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, loc).UnixMilli(), DayKey(ts))
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), DayKey(ts.UTC()))
}
