// internal/dataset/dates.go
package dataset

import (
	"fmt"
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// ParseDay parses a calendar-date bound in YYYY-MM-DD form.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FilterByDate keeps the rows whose timestamp, read through at, falls inside
// the closed interval [start, end]. An empty bound is a no-op on that side.
// Rows with a nil timestamp are dropped as soon as either bound is set. The
// input slice is never modified.
func FilterByDate[T any](rows []T, at func(T) *time.Time, start, end string) ([]T, error) {
	if start == "" && end == "" {
		out := make([]T, len(rows))
		copy(out, rows)
		return out, nil
	}

	var startT, endT time.Time
	var err error
	if start != "" {
		if startT, err = ParseDay(start); err != nil {
			return nil, err
		}
	}
	if end != "" {
		if endT, err = ParseDay(end); err != nil {
			return nil, err
		}
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		ts := at(r)
		if ts == nil {
			continue
		}
		if start != "" && ts.Before(startT) {
			continue
		}
		if end != "" && ts.After(endT) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// DateRangeInfo summarizes the span covered by a date column.
type DateRangeInfo struct {
	MinDate      time.Time `json:"min_date"`
	MaxDate      time.Time `json:"max_date"`
	RangeDays    int       `json:"date_range_days"`
	UniqueDates  int       `json:"unique_dates"`
	UniqueMonths int       `json:"unique_months"`
	Years        []int     `json:"unique_years"`
}

// DateRange reports the range info over non-nil timestamps; ok is false when
// no row carries one.
func DateRange[T any](rows []T, at func(T) *time.Time) (DateRangeInfo, bool) {
	var info DateRangeInfo
	days := make(map[string]bool)
	months := make(map[string]bool)
	years := make(map[int]bool)
	found := false

	for _, r := range rows {
		ts := at(r)
		if ts == nil {
			continue
		}
		if !found || ts.Before(info.MinDate) {
			info.MinDate = *ts
		}
		if !found || ts.After(info.MaxDate) {
			info.MaxDate = *ts
		}
		found = true
		days[ts.Format(dayLayout)] = true
		months[ts.Format("2006-01")] = true
		years[ts.Year()] = true
	}
	if !found {
		return DateRangeInfo{}, false
	}

	info.RangeDays = int(info.MaxDate.Sub(info.MinDate).Hours() / 24)
	info.UniqueDates = len(days)
	info.UniqueMonths = len(months)
	for y := range years {
		info.Years = append(info.Years, y)
	}
	sort.Ints(info.Years)

	return info, true
}
