package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// TimeRange is the storable form of a working time range as "HH:MM" strings.
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ShiftEntry is the storable form of a working pattern: one or more time
// ranges on the days matched by an RFC 5545 RRULE. Later entries with Override
// replace the ranges of earlier entries on the days they match.
type ShiftEntry struct {
	Ranges   []TimeRange `json:"ranges"`
	RRule    string      `json:"rrule"`
	Override bool        `json:"override,omitempty"`
}

// Shift is the scheduled start and end of one working day.
type Shift struct {
	Start TimeOfDay
	End   TimeOfDay
}

// DefaultShifts returns the studio's default pattern: Mon-Sat 09:00-18:00.
func DefaultShifts() []ShiftEntry {
	return []ShiftEntry{
		{
			Ranges: []TimeRange{{From: "09:00", To: "18:00"}},
			RRule:  "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA",
		},
	}
}

// ParseShift builds a Shift from "HH:MM" start and end strings.
func ParseShift(start, end string) (Shift, error) {
	from, err := ParseTimeOfDay(start)
	if err != nil {
		return Shift{}, fmt.Errorf("invalid shift start %q: %w", start, err)
	}
	to, err := ParseTimeOfDay(end)
	if err != nil {
		return Shift{}, fmt.Errorf("invalid shift end %q: %w", end, err)
	}
	if !from.Before(to) {
		return Shift{}, fmt.Errorf("shift start %s must be before end %s", from, to)
	}
	return Shift{Start: from, End: to}, nil
}

// Validate checks every range and the recurrence rule of each entry.
func Validate(entries []ShiftEntry) error {
	for i, e := range entries {
		if len(e.Ranges) == 0 {
			return fmt.Errorf("shift %d has no time ranges", i)
		}
		for _, r := range e.Ranges {
			if _, err := ParseShift(r.From, r.To); err != nil {
				return fmt.Errorf("shift %d: %w", i, err)
			}
		}
		if _, err := parseRule(e.RRule, time.Time{}); err != nil {
			return fmt.Errorf("shift %d: %w", i, err)
		}
	}
	return nil
}

// ShiftFor returns the scheduled shift on the calendar day of day (in day's
// location). Split ranges collapse to the earliest start and latest end.
// ok is false when the day is not a working day.
func ShiftFor(entries []ShiftEntry, day time.Time) (shift Shift, ok bool, err error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)

	var ranges []Shift
	for _, e := range entries {
		r, err := parseRule(e.RRule, dayStart)
		if err != nil {
			return Shift{}, false, err
		}
		if len(r.Between(dayStart, dayEnd, true)) == 0 {
			continue
		}

		parsed := make([]Shift, 0, len(e.Ranges))
		for _, tr := range e.Ranges {
			s, err := ParseShift(tr.From, tr.To)
			if err != nil {
				return Shift{}, false, err
			}
			parsed = append(parsed, s)
		}
		if e.Override {
			ranges = parsed
		} else {
			ranges = append(ranges, parsed...)
		}
	}

	if len(ranges) == 0 {
		return Shift{}, false, nil
	}

	shift = ranges[0]
	for _, s := range ranges[1:] {
		if s.Start.Before(shift.Start) {
			shift.Start = s.Start
		}
		if shift.End.Before(s.End) {
			shift.End = s.End
		}
	}
	return shift, true, nil
}

// parseRule parses an RRULE string. Rules without DTSTART are anchored at
// anchor so Between() covers the requested day.
func parseRule(s string, anchor time.Time) (*rrule.RRule, error) {
	raw := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "RRULE:")
	if raw == "" {
		return nil, fmt.Errorf("missing rrule")
	}
	opts, err := rrule.StrToROption(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", s, err)
	}
	if opts.Dtstart.IsZero() && !anchor.IsZero() {
		opts.Dtstart = anchor
	}
	r, err := rrule.NewRRule(*opts)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", s, err)
	}
	return r, nil
}
