package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadDate is returned when a token is not a recognized date expression.
var ErrBadDate = errors.New("cannot parse date")

// DayFormat is the canonical calendar-date form used throughout the graph.
const DayFormat = "2006-01-02"

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Date parses a date expression relative to the current time and returns the
// canonical "2006-01-02" form. Recognized expressions:
//
//   - a literal date: "2026-08-30"
//   - relative keywords: "today", "tomorrow", "yesterday"
//   - day offsets: "3 days", "1 day"
//   - "next week" (seven days out)
//   - a weekday name: the next occurrence, never today
//   - a month name or abbreviation: the first of that month, this year
func Date(token string) (string, error) {
	return DateAt(token, time.Now())
}

// DateAt is Date with an explicit reference time.
func DateAt(token string, now time.Time) (string, error) {
	token = strings.ToLower(strings.TrimSpace(token))

	if t, err := time.Parse(DayFormat, token); err == nil {
		return t.Format(DayFormat), nil
	}

	switch token {
	case "today":
		return now.Format(DayFormat), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(DayFormat), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(DayFormat), nil
	case "next week":
		return now.AddDate(0, 0, 7).Format(DayFormat), nil
	}

	if wd, ok := weekdays[token]; ok {
		delta := (int(wd) - int(now.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return now.AddDate(0, 0, delta).Format(DayFormat), nil
	}

	if m, ok := months[token]; ok {
		first := time.Date(now.Year(), m, 1, 0, 0, 0, 0, now.Location())
		return first.Format(DayFormat), nil
	}

	if fields := strings.Fields(token); len(fields) == 2 {
		unit := fields[1]
		if unit == "day" || unit == "days" {
			n, err := strconv.Atoi(fields[0])
			if err == nil {
				return now.AddDate(0, 0, n).Format(DayFormat), nil
			}
		}
	}

	return "", fmt.Errorf("%w: %q", ErrBadDate, token)
}

// Keywords returns every reserved date word: relative keywords, weekday
// names, and month names with their abbreviations. The alias command refuses
// these as alias names unless forced, since an alias shadowing "today" would
// change what identifiers resolve to.
func Keywords() []string {
	out := []string{"today", "tomorrow", "yesterday"}
	for w := range weekdays {
		out = append(out, w)
	}
	for m := range months {
		out = append(out, m)
	}
	return out
}

// IsKeyword reports whether s (case-insensitive) is a reserved date word.
func IsKeyword(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "today", "tomorrow", "yesterday":
		return true
	}
	if _, ok := weekdays[s]; ok {
		return true
	}
	_, ok := months[s]
	return ok
}
