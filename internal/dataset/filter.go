package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Period modes and granularities, mirroring the sidebar controls.
const (
	ModeAnalysis   = "analysis"
	ModeComparison = "comparison"

	GranAnnual  = "annual"
	GranMonthly = "monthly"
	GranWeekly  = "weekly"
)

// Comparison pseudo-values for the day-type and client-segment selectors:
// both classes are kept and the views bucket by them.
const (
	CompareDayTypes = "Confronto Alti/Bassi"
	CompareSegments = "Confronto Privati/Gruppo"
)

// PeriodSelector pins one period at the configured granularity. Month and
// Week are ignored for coarser granularities.
type PeriodSelector struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
	Week  int `json:"week,omitempty"`
}

// Period is the tagged union of the two period modes: a single selector in
// analysis mode, the union of two selectors in comparison mode.
type Period struct {
	Mode        string         `json:"mode"`
	Granularity string         `json:"granularity"`
	First       PeriodSelector `json:"first"`
	Second      PeriodSelector `json:"second,omitempty"`
}

// FilterContext carries every user-facing selector. It is rebuilt from the
// request body on each call and never persisted. Empty string means "Tutte".
type FilterContext struct {
	Period        Period `json:"period"`
	DayType       string `json:"day_type,omitempty"`
	ClientSegment string `json:"client_segment,omitempty"`
	Area          string `json:"area,omitempty"`
	Boat          string `json:"boat,omitempty"`
}

// Validate rejects malformed periods before any view runs.
func (c FilterContext) Validate() error {
	switch c.Period.Mode {
	case ModeAnalysis, ModeComparison:
	default:
		return fmt.Errorf("unknown period mode %q", c.Period.Mode)
	}
	switch c.Period.Granularity {
	case GranAnnual, GranMonthly, GranWeekly:
	default:
		return fmt.Errorf("unknown period granularity %q", c.Period.Granularity)
	}
	if c.Period.First.Year == 0 {
		return fmt.Errorf("period year required")
	}
	if c.Period.Mode == ModeComparison && c.Period.Second.Year == 0 {
		return fmt.Errorf("second period year required in comparison mode")
	}
	return nil
}

// IsComparison reports whether two periods are being compared.
func (c FilterContext) IsComparison() bool { return c.Period.Mode == ModeComparison }

func matchesSelector(r TripRecord, gran string, sel PeriodSelector) bool {
	if r.Year != sel.Year {
		return false
	}
	switch gran {
	case GranAnnual:
		return true
	case GranMonthly:
		return r.Month() == sel.Month
	case GranWeekly:
		return r.ISOWeek() == sel.Week
	}
	return false
}

func matchesPeriod(r TripRecord, p Period) bool {
	if p.Mode == ModeComparison {
		return matchesSelector(r, p.Granularity, p.First) || matchesSelector(r, p.Granularity, p.Second)
	}
	return matchesSelector(r, p.Granularity, p.First)
}

func matchesDayType(r TripRecord, sel string) bool {
	switch sel {
	case "", "Tutti":
		return true
	case CompareDayTypes:
		return r.DayType == DayHigh || r.DayType == DayLow
	default:
		return r.DayType == sel
	}
}

func matchesSegment(r TripRecord, sel string) bool {
	switch sel {
	case "", "Tutti":
		return true
	case CompareSegments:
		return r.ClientSegment == SegmentPrivate || r.ClientSegment == SegmentGroup
	default:
		return r.ClientSegment == sel
	}
}

// Filter returns the rows matching every predicate of ctx. All predicates
// are evaluated as one conjunction per row; the input is never mutated.
func Filter(rows []TripRecord, ctx FilterContext) []TripRecord {
	out := make([]TripRecord, 0, len(rows))
	for _, r := range rows {
		if !matchesPeriod(r, ctx.Period) {
			continue
		}
		if !matchesDayType(r, ctx.DayType) {
			continue
		}
		if !matchesSegment(r, ctx.ClientSegment) {
			continue
		}
		if ctx.Area != "" && ctx.Area != "Tutte" && r.Area != ctx.Area {
			continue
		}
		if ctx.Boat != "" && ctx.Boat != "Tutte" && r.Boat != ctx.Boat {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SelectorLabel renders a human label for one period selector, used for
// comparison bucketing in the views.
func SelectorLabel(gran string, sel PeriodSelector) string {
	switch gran {
	case GranMonthly:
		return fmt.Sprintf("%s %d", time.Month(sel.Month).String(), sel.Year)
	case GranWeekly:
		return fmt.Sprintf("Settimana %d %d", sel.Week, sel.Year)
	default:
		return fmt.Sprintf("%d", sel.Year)
	}
}

// PeriodLabel assigns a row to one of the two comparison buckets, or "" when
// it belongs to neither (only possible outside comparison mode).
func (c FilterContext) PeriodLabel(r TripRecord) string {
	if !c.IsComparison() {
		return SelectorLabel(c.Period.Granularity, c.Period.First)
	}
	if matchesSelector(r, c.Period.Granularity, c.Period.First) {
		return SelectorLabel(c.Period.Granularity, c.Period.First)
	}
	if matchesSelector(r, c.Period.Granularity, c.Period.Second) {
		return SelectorLabel(c.Period.Granularity, c.Period.Second)
	}
	return ""
}

// ComparisonLabels returns the two bucket labels in request order.
func (c FilterContext) ComparisonLabels() (string, string) {
	return SelectorLabel(c.Period.Granularity, c.Period.First),
		SelectorLabel(c.Period.Granularity, c.Period.Second)
}

// ContextLabel is the breadcrumb-style description appended to view titles.
func (c FilterContext) ContextLabel() string {
	var parts []string
	if c.Area != "" && c.Area != "Tutte" {
		parts = append(parts, "Area: "+c.Area)
	}
	if c.Boat != "" && c.Boat != "Tutte" {
		parts = append(parts, "Barca: "+c.Boat)
	}
	return strings.Join(parts, " – ")
}
