package leave

import (
	"testing"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTenureYears(t *testing.T) {
	tests := []struct {
		name string
		hire time.Time
		want int
	}{
		{"exactly seven years", date(2018, 6, 15), 7},
		{"day before anniversary", date(2018, 6, 16), 6},
		{"month before anniversary", date(2018, 7, 1), 6},
		{"anniversary passed", date(2018, 1, 31), 7},
		{"hired this year", date(2025, 1, 2), 0},
		{"future hire", date(2026, 1, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TenureYears(tt.hire, today))
		})
	}
}

func TestExpectedDaysIsCumulative(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		years int
		want  int
	}{
		{0, 0},
		{1, 14},
		{5, 70},
		{6, 90},
		{7, 110},
		{15, 270},
		{16, 296},
		{20, 400},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.ExpectedDays(tt.years), "years=%d", tt.years)
	}
}

func TestExpectedDaysMonotonic(t *testing.T) {
	p := DefaultPolicy()
	for years := 0; years < 50; years++ {
		assert.GreaterOrEqual(t, p.ExpectedDays(years+1), p.ExpectedDays(years))
	}
}

func TestRateFor(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 0, p.RateFor(0))
	assert.Equal(t, 14, p.RateFor(5))
	assert.Equal(t, 20, p.RateFor(6))
	assert.Equal(t, 20, p.RateFor(15))
	assert.Equal(t, 26, p.RateFor(16))
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.Error(t, Policy{}.Validate())
	assert.Error(t, Policy{Tiers: []Tier{{FromYear: 2, DaysPerYear: 14}}}.Validate())
	assert.Error(t, Policy{Tiers: []Tier{{FromYear: 1, DaysPerYear: 14}, {FromYear: 1, DaysPerYear: 20}}}.Validate())
	assert.Error(t, Policy{Tiers: []Tier{{FromYear: 1, DaysPerYear: -1}}}.Validate())
}

func staff(id, hire string, stored int) personnel.Personnel {
	return personnel.Personnel{ID: id, Name: id, HireDate: hire, LeaveEntitlementDays: stored, Active: true, Role: "makeup"}
}

func TestGapSevenYears(t *testing.T) {
	g, ok := DefaultPolicy().Gap(staff("p1", "2018-06-15", 90), today)
	assert.True(t, ok)
	assert.Equal(t, Gap{
		PersonID:     "p1",
		PersonName:   "p1",
		TenureYears:  7,
		ExpectedDays: 110,
		StoredDays:   90,
		GapDays:      20,
	}, g)
}

func TestGapSkips(t *testing.T) {
	p := DefaultPolicy()

	manager := staff("m", "2010-01-01", 0)
	manager.Role = "Manager"
	inactive := staff("i", "2010-01-01", 0)
	inactive.Active = false

	tests := []struct {
		name   string
		person personnel.Personnel
	}{
		{"managerial role", manager},
		{"inactive", inactive},
		{"missing hire date", staff("x", "", 0)},
		{"malformed hire date", staff("x", "15.06.2018", 0)},
		{"under a year", staff("x", "2024-12-01", 0)},
		{"up to date", staff("x", "2018-06-15", 110)},
		{"surplus", staff("x", "2018-06-15", 130)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := p.Gap(tt.person, today)
			assert.False(t, ok)
		})
	}
}

func TestReviewSurfacesSurplus(t *testing.T) {
	p := DefaultPolicy()
	people := []personnel.Personnel{
		staff("a", "2018-06-15", 130),
		staff("b", "2018-06-15", 100),
	}

	surplus := p.Surpluses(people, today)
	assert.Len(t, surplus, 1)
	assert.Equal(t, -20, surplus[0].GapDays)

	gaps := p.Gaps(people, today)
	assert.Len(t, gaps, 1)
	assert.Equal(t, "b", gaps[0].PersonID)
}

func TestGapsSortedLargestFirst(t *testing.T) {
	gaps := DefaultPolicy().Gaps([]personnel.Personnel{
		staff("small", "2023-01-01", 20),
		staff("large", "2005-01-01", 0),
		staff("none", "2024-01-01", 14),
	}, today)

	assert.Len(t, gaps, 2)
	assert.Equal(t, "large", gaps[0].PersonID)
	assert.Equal(t, "small", gaps[1].PersonID)
	assert.Equal(t, 8, gaps[1].GapDays)
}
