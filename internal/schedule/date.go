package schedule

import (
	"fmt"
	"strings"
	"time"
)

// ParseDay parses a calendar day relative to now, in now's location.
// Supports "today", "yesterday", "tomorrow", weekday names (the most recent
// such day, today included), "2006-01-02", "Jan 2", "2 Jan 2006" and
// "2.1.2006". Month names are matched case-insensitively.
func ParseDay(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	today := StartOfDay(now)

	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if wd, ok := weekdays[strings.TrimPrefix(s, "last ")]; ok {
		back := int(today.Weekday()) - int(wd)
		if back < 0 {
			back += 7
		}
		return today.AddDate(0, 0, -back), nil
	}

	layouts := []string{
		"2006-01-02",
		"Jan 2",
		"Jan 2 2006",
		"2 Jan",
		"2 Jan 2006",
		"2.1.2006",
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "2006") {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
