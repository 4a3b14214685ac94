package attendance

import (
	"sort"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/shopspring/decimal"
)

// DailyStatus is the derived attendance of one person on one calendar day.
// Nil fields are absent facts, never zero.
type DailyStatus struct {
	PersonID     string
	PersonName   string
	Date         string // 2006-01-02
	FirstCheckIn *time.Time
	LastCheckOut *time.Time
	Active       bool

	// WorkedMinutes is door-to-door: last check-out minus first check-in.
	// Breaks between intermediate pairs are not subtracted.
	WorkedMinutes     *int
	LateMinutes       *int
	EarlyLeaveMinutes *int
}

// WorkedHours returns the worked duration in hours rounded to two places.
func (s DailyStatus) WorkedHours() (decimal.Decimal, bool) {
	if s.WorkedMinutes == nil {
		return decimal.Zero, false
	}
	return hours(*s.WorkedMinutes), true
}

func hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// Derive computes one person's status from that person's events on a single
// day. Wall-clock comparisons use each timestamp's own location. shift is nil
// when no schedule applies, in which case lateness and early departure are
// absent. Derive never fails.
func Derive(events []Event, shift *schedule.Shift) DailyStatus {
	var (
		status      DailyStatus
		lastCheckIn *time.Time
		latest      time.Time
	)

	for i := range events {
		e := events[i]
		ts := e.Timestamp
		if status.PersonID == "" {
			status.PersonID = e.PersonID
		}
		if !ts.Before(latest) {
			latest = ts
			if e.PersonName != "" {
				status.PersonName = e.PersonName
			}
		}

		switch e.Type {
		case CheckIn:
			if status.FirstCheckIn == nil || ts.Before(*status.FirstCheckIn) {
				status.FirstCheckIn = &ts
			}
			if lastCheckIn == nil || ts.After(*lastCheckIn) {
				lastCheckIn = &ts
			}
		case CheckOut:
			if status.LastCheckOut == nil || ts.After(*status.LastCheckOut) {
				status.LastCheckOut = &ts
			}
		}
	}

	if status.FirstCheckIn != nil {
		status.Date = status.FirstCheckIn.Format("2006-01-02")
	} else if status.LastCheckOut != nil {
		status.Date = status.LastCheckOut.Format("2006-01-02")
	}

	status.Active = lastCheckIn != nil &&
		(status.LastCheckOut == nil || status.LastCheckOut.Before(*lastCheckIn))

	if status.FirstCheckIn != nil && status.LastCheckOut != nil && !status.Active {
		mins := int(status.LastCheckOut.Sub(*status.FirstCheckIn) / time.Minute)
		status.WorkedMinutes = &mins
	}

	if shift == nil {
		return status
	}
	if status.FirstCheckIn != nil {
		late := max(0, schedule.MinuteOfDay(*status.FirstCheckIn)-shift.Start.Minutes())
		status.LateMinutes = &late
	}
	if status.LastCheckOut != nil && !status.Active {
		early := max(0, shift.End.Minutes()-schedule.MinuteOfDay(*status.LastCheckOut))
		status.EarlyLeaveMinutes = &early
	}
	return status
}

// ShiftFunc resolves a person's scheduled shift on a day. ok is false when the
// person is not scheduled to work that day.
type ShiftFunc func(personID string, day time.Time) (shift schedule.Shift, ok bool)

// DeriveDay groups the events falling on day (in day's location) by person and
// derives each person's status, sorted by name. Events from other days are
// ignored.
func DeriveDay(events []Event, day time.Time, shifts ShiftFunc) []DailyStatus {
	loc := day.Location()
	y, m, d := day.Date()

	byPerson := make(map[string][]Event)
	for _, e := range events {
		local := e.Timestamp.In(loc)
		ey, em, ed := local.Date()
		if ey != y || em != m || ed != d {
			continue
		}
		e.Timestamp = local
		byPerson[e.PersonID] = append(byPerson[e.PersonID], e)
	}

	statuses := make([]DailyStatus, 0, len(byPerson))
	for personID, evs := range byPerson {
		var shift *schedule.Shift
		if shifts != nil {
			if s, ok := shifts(personID, day); ok {
				shift = &s
			}
		}
		status := Derive(evs, shift)
		status.Date = day.Format("2006-01-02")
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].PersonName != statuses[j].PersonName {
			return statuses[i].PersonName < statuses[j].PersonName
		}
		return statuses[i].PersonID < statuses[j].PersonID
	})
	return statuses
}

// Summary counts a day's statuses.
type Summary struct {
	Present   int // checked in at least once
	Active    int
	Late      int
	LeftEarly int
	Minutes   int // total closed worked minutes
}

// Hours returns Minutes in hours rounded to two places.
func (s Summary) Hours() decimal.Decimal {
	return hours(s.Minutes)
}

// Summarize totals a day's statuses.
func Summarize(statuses []DailyStatus) Summary {
	var s Summary
	for _, st := range statuses {
		if st.FirstCheckIn != nil {
			s.Present++
		}
		if st.Active {
			s.Active++
		}
		if st.LateMinutes != nil && *st.LateMinutes > 0 {
			s.Late++
		}
		if st.EarlyLeaveMinutes != nil && *st.EarlyLeaveMinutes > 0 {
			s.LeftEarly++
		}
		if st.WorkedMinutes != nil {
			s.Minutes += *st.WorkedMinutes
		}
	}
	return s
}
