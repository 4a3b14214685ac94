package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRRule returns a human-readable description of an RRULE string.
func FormatRRule(rruleStr string) string {
	parts := make(map[string]string)
	for _, seg := range strings.Split(strings.ToUpper(rruleStr), ";") {
		kv := strings.SplitN(seg, "=", 2)
		if len(kv) == 2 {
			parts[kv[0]] = kv[1]
		}
	}

	interval := 1
	if v, ok := parts["INTERVAL"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			interval = n
		}
	}

	switch parts["FREQ"] {
	case "WEEKLY":
		if byday := parts["BYDAY"]; byday != "" {
			days := strings.Split(byday, ",")
			switch {
			case sameDays(days, "MO", "TU", "WE", "TH", "FR"):
				return "every weekday"
			case sameDays(days, "MO", "TU", "WE", "TH", "FR", "SA"):
				return "Monday to Saturday"
			case sameDays(days, "SA", "SU"):
				return "every weekend"
			}
			names := make([]string, len(days))
			for i, d := range days {
				names[i] = dayName(d)
			}
			return "every " + strings.Join(names, ", ")
		}
		if interval > 1 {
			return fmt.Sprintf("every %d weeks", interval)
		}
		return "every week"
	case "DAILY":
		if interval > 1 {
			return fmt.Sprintf("every %d days", interval)
		}
		return "every day"
	}

	return rruleStr
}

// FormatShiftEntry renders an entry as "09:00-18:00, Monday to Saturday".
func FormatShiftEntry(e ShiftEntry) string {
	ranges := make([]string, len(e.Ranges))
	for i, r := range e.Ranges {
		ranges[i] = r.From + "-" + r.To
	}
	out := fmt.Sprintf("%s, %s", strings.Join(ranges, " + "), FormatRRule(e.RRule))
	if e.Override {
		out += " (override)"
	}
	return out
}

func sameDays(actual []string, expected ...string) bool {
	if len(actual) != len(expected) {
		return false
	}
	set := make(map[string]bool, len(expected))
	for _, e := range expected {
		set[e] = true
	}
	for _, a := range actual {
		if !set[a] {
			return false
		}
		delete(set, a)
	}
	return len(set) == 0
}

var dayNames = map[string]string{
	"MO": "Monday",
	"TU": "Tuesday",
	"WE": "Wednesday",
	"TH": "Thursday",
	"FR": "Friday",
	"SA": "Saturday",
	"SU": "Sunday",
}

func dayName(abbrev string) string {
	if name, ok := dayNames[strings.ToUpper(abbrev)]; ok {
		return name
	}
	return abbrev
}
