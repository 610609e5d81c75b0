package domain

import "time"

// LevelFuture marks cells after the as-of day. They only exist to complete
// the month grid and take no part in totals or the streak.
const LevelFuture = -1

// heatmapMonths is the number of calendar months covered by a heatmap.
const heatmapMonths = 12

// DayKey returns the epoch milliseconds of local midnight for t's calendar
// day in t's location.
func DayKey(t time.Time) int64 {
	return startOfDay(t).UnixMilli()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ActivityLevel buckets a day's revision count for display.
func ActivityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	case count <= 4:
		return 3
	default:
		return 4
	}
}

// HeatmapCell is one real day of the grid.
type HeatmapCell struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Day    int64  `json:"day"`
	Count  int    `json:"count"`
	Level  int    `json:"level"`
	Future bool   `json:"future,omitempty"`
}

// HeatmapMonth holds one month of cells laid out Sunday-first. Nil cells pad
// the first and last week and are never interactive.
type HeatmapMonth struct {
	Year  int            `json:"year"`
	Month time.Month     `json:"month"`
	Cells []*HeatmapCell `json:"cells"`
}

// Weeks splits the month into rows of seven cells.
func (m HeatmapMonth) Weeks() [][]*HeatmapCell {
	weeks := make([][]*HeatmapCell, 0, len(m.Cells)/7)
	for i := 0; i+7 <= len(m.Cells); i += 7 {
		weeks = append(weeks, m.Cells[i:i+7])
	}
	return weeks
}

// Heatmap is the revision activity over a rolling twelve-month window.
type Heatmap struct {
	Start          string         `json:"start"`
	End            string         `json:"end"`
	Months         []HeatmapMonth `json:"months"`
	Streak         int            `json:"streak"`
	TotalRevisions int            `json:"totalRevisions"`
	ActiveDays     int            `json:"activeDays"`
}

// BuildHeatmap lays out counts (keyed by DayKey) from the first day of the
// month eleven months before asOf through the last day of asOf's month. Day
// keys are computed in asOf's location.
func BuildHeatmap(counts map[int64]int, asOf time.Time) Heatmap {
	today := startOfDay(asOf)
	loc := today.Location()
	first := time.Date(today.Year(), today.Month()-(heatmapMonths-1), 1, 0, 0, 0, 0, loc)
	last := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, loc)

	hm := Heatmap{
		Start:  first.Format(time.DateOnly),
		End:    last.Format(time.DateOnly),
		Months: make([]HeatmapMonth, 0, heatmapMonths),
		Streak: Streak(counts, asOf),
	}

	for i := 0; i < heatmapMonths; i++ {
		monthStart := time.Date(first.Year(), first.Month()+time.Month(i), 1, 0, 0, 0, 0, loc)
		month := HeatmapMonth{Year: monthStart.Year(), Month: monthStart.Month()}
		for pad := 0; pad < int(monthStart.Weekday()); pad++ {
			month.Cells = append(month.Cells, nil)
		}
		for day := monthStart; day.Month() == monthStart.Month(); day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc) {
			cell := &HeatmapCell{Date: day.Format(time.DateOnly), Day: day.UnixMilli()}
			if day.After(today) {
				cell.Future = true
				cell.Level = LevelFuture
			} else {
				cell.Count = counts[cell.Day]
				cell.Level = ActivityLevel(cell.Count)
				if cell.Count > 0 {
					hm.TotalRevisions += cell.Count
					hm.ActiveDays++
				}
			}
			month.Cells = append(month.Cells, cell)
		}
		for len(month.Cells)%7 != 0 {
			month.Cells = append(month.Cells, nil)
		}
		hm.Months = append(hm.Months, month)
	}
	return hm
}

// Streak counts consecutive days with at least one revision, walking back
// from asOf's day. It is zero when asOf itself has no activity.
func Streak(counts map[int64]int, asOf time.Time) int {
	today := startOfDay(asOf)
	streak := 0
	for {
		day := time.Date(today.Year(), today.Month(), today.Day()-streak, 0, 0, 0, 0, today.Location())
		if counts[day.UnixMilli()] < 1 {
			return streak
		}
		streak++
	}
}
