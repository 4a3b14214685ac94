// Package leave computes tenure-based annual leave entitlement and reconciles
// it against the balance stored on each personnel record.
package leave

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
)

// Tier credits DaysPerYear for every completed tenure year from FromYear
// onwards, until the next tier starts.
type Tier struct {
	FromYear    int `json:"fromYear"`
	DaysPerYear int `json:"daysPerYear"`
}

// Policy is the accrual table plus the roles excluded from it.
type Policy struct {
	Tiers         []Tier   `json:"tiers"`
	ExcludedRoles []string `json:"excludedRoles"`
}

// DefaultPolicy credits 14 days for years 1-5, 20 for years 6-15 and 26 from
// year 16, and excludes managers.
func DefaultPolicy() Policy {
	return Policy{
		Tiers: []Tier{
			{FromYear: 1, DaysPerYear: 14},
			{FromYear: 6, DaysPerYear: 20},
			{FromYear: 16, DaysPerYear: 26},
		},
		ExcludedRoles: []string{"manager"},
	}
}

// Validate checks that tiers start at year 1 and strictly increase.
func (p Policy) Validate() error {
	if len(p.Tiers) == 0 {
		return fmt.Errorf("leave policy has no tiers")
	}
	tiers := p.sortedTiers()
	if tiers[0].FromYear != 1 {
		return fmt.Errorf("first leave tier must start at year 1, got %d", tiers[0].FromYear)
	}
	for i, t := range tiers {
		if t.DaysPerYear < 0 {
			return fmt.Errorf("leave tier from year %d has negative days", t.FromYear)
		}
		if i > 0 && t.FromYear == tiers[i-1].FromYear {
			return fmt.Errorf("duplicate leave tier for year %d", t.FromYear)
		}
	}
	return nil
}

func (p Policy) sortedTiers() []Tier {
	tiers := make([]Tier, len(p.Tiers))
	copy(tiers, p.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].FromYear < tiers[j].FromYear })
	return tiers
}

// RateFor returns the days credited for the given tenure year (1-based).
func (p Policy) RateFor(year int) int {
	rate := 0
	for _, t := range p.sortedTiers() {
		if year >= t.FromYear {
			rate = t.DaysPerYear
		}
	}
	return rate
}

// ExpectedDays is the running sum of RateFor over years 1..tenureYears, so a
// seventh-year employee has 5×14 + 2×20 days, not 7×20.
func (p Policy) ExpectedDays(tenureYears int) int {
	total := 0
	for year := 1; year <= tenureYears; year++ {
		total += p.RateFor(year)
	}
	return total
}

// Excludes reports whether role is outside the accrual policy.
func (p Policy) Excludes(role string) bool {
	role = strings.TrimSpace(role)
	for _, r := range p.ExcludedRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// TenureYears counts completed years since hire. The current year only counts
// once today reaches the hire anniversary.
func TenureYears(hire, today time.Time) int {
	years := today.Year() - hire.Year()
	if today.Month() < hire.Month() || (today.Month() == hire.Month() && today.Day() < hire.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Gap is the difference between expected and stored entitlement for one
// person. GapDays may be negative from Review; Gaps only returns positive ones.
type Gap struct {
	PersonID     string
	PersonName   string
	TenureYears  int
	ExpectedDays int
	StoredDays   int
	GapDays      int
}

// Review computes the gap for one person. ok is false when the person is
// outside the calculation: excluded role, inactive, missing or malformed hire
// date, or less than one completed year.
func (p Policy) Review(person personnel.Personnel, today time.Time) (Gap, bool) {
	if p.Excludes(person.Role) || !person.Active {
		return Gap{}, false
	}
	hire, ok := person.Hired()
	if !ok {
		return Gap{}, false
	}
	years := TenureYears(hire, today)
	if years < 1 {
		return Gap{}, false
	}

	expected := p.ExpectedDays(years)
	return Gap{
		PersonID:     person.ID,
		PersonName:   person.Name,
		TenureYears:  years,
		ExpectedDays: expected,
		StoredDays:   person.LeaveEntitlementDays,
		GapDays:      expected - person.LeaveEntitlementDays,
	}, true
}

// Gap returns the person's shortfall, if any. Surpluses are never reported
// as gaps.
func (p Policy) Gap(person personnel.Personnel, today time.Time) (Gap, bool) {
	g, ok := p.Review(person, today)
	if !ok || g.GapDays <= 0 {
		return Gap{}, false
	}
	return g, true
}

// Gaps returns every positive gap, largest first.
func (p Policy) Gaps(people []personnel.Personnel, today time.Time) []Gap {
	var gaps []Gap
	for _, person := range people {
		if g, ok := p.Gap(person, today); ok {
			gaps = append(gaps, g)
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].GapDays != gaps[j].GapDays {
			return gaps[i].GapDays > gaps[j].GapDays
		}
		return gaps[i].PersonName < gaps[j].PersonName
	})
	return gaps
}

// Surpluses returns records whose stored balance exceeds the expected one.
// They are surfaced for review and never corrected downwards.
func (p Policy) Surpluses(people []personnel.Personnel, today time.Time) []Gap {
	var out []Gap
	for _, person := range people {
		if g, ok := p.Review(person, today); ok && g.GapDays < 0 {
			out = append(out, g)
		}
	}
	return out
}
