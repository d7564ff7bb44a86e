package event

import (
	"strings"
	"time"
)

// FilterMode selects a date window for list filtering.
type FilterMode string

const (
	FilterToday     FilterMode = "today"
	FilterThisWeek  FilterMode = "thisWeek"
	FilterNextWeek  FilterMode = "nextWeek"
	FilterThisMonth FilterMode = "thisMonth"
)

// ParseFilterMode validates a query-string filter value.
func ParseFilterMode(s string) (FilterMode, bool) {
	switch FilterMode(s) {
	case FilterToday, FilterThisWeek, FilterNextWeek, FilterThisMonth:
		return FilterMode(s), true
	}
	return "", false
}

// Search keeps events whose name, location or description contains the
// query, case-insensitively. An empty query keeps everything.
func Search(events []Event, query string) []Event {
	if query == "" {
		return events
	}
	q := strings.ToLower(query)
	matched := make([]Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Location), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			matched = append(matched, e)
		}
	}
	return matched
}

// dateOrdinal flattens a time to a comparable day number.
func dateOrdinal(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// FilterByMode keeps events whose start date falls in the window:
// today, today through the upcoming Sunday, the following Monday
// through Sunday, or the current calendar month.
func FilterByMode(events []Event, mode FilterMode, now time.Time) []Event {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Days remaining until Sunday; zero when today is Sunday.
	untilSunday := (7 - int(today.Weekday())) % 7

	var from, to time.Time // inclusive bounds
	switch mode {
	case FilterToday:
		from, to = today, today
	case FilterThisWeek:
		from, to = today, today.AddDate(0, 0, untilSunday)
	case FilterNextWeek:
		from = today.AddDate(0, 0, untilSunday+1)
		to = from.AddDate(0, 0, 6)
	case FilterThisMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0).AddDate(0, 0, -1)
	default:
		return events
	}

	lo, hi := dateOrdinal(from), dateOrdinal(to)
	matched := make([]Event, 0, len(events))
	for _, e := range events {
		if d := dateOrdinal(e.StartDate); d >= lo && d <= hi {
			matched = append(matched, e)
		}
	}
	return matched
}

// SplitUpcoming partitions events at today's midnight. Events starting
// today count as upcoming. Relative order within each half is preserved.
func SplitUpcoming(events []Event, now time.Time) (upcoming, past []Event) {
	today := dateOrdinal(now)
	upcoming = make([]Event, 0, len(events))
	past = make([]Event, 0)
	for _, e := range events {
		if dateOrdinal(e.StartDate) >= today {
			upcoming = append(upcoming, e)
		} else {
			past = append(past, e)
		}
	}
	return upcoming, past
}
