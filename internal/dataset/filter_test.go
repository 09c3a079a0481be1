package dataset

import (
	"testing"
	"time"
)

func row(date time.Time, boat, area, dayType, segment string, revenue float64) TripRecord {
	return TripRecord{
		Date:          date,
		Boat:          boat,
		Area:          area,
		Kind:          RowDetail,
		Year:          date.Year(),
		DayType:       dayType,
		ClientSegment: segment,
		Revenue:       Float(revenue),
	}
}

func sampleRows() []TripRecord {
	return []TripRecord{
		row(time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", DayHigh, SegmentPrivate, 100),
		row(time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC), "Eternity", "Desenzano", DayLow, SegmentGroup, 200),
		row(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", DayHigh, SegmentPrivate, 150),
		row(time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC), "Columbus", "BSD", DayLow, SegmentGroup, 300),
	}
}

func TestFilterAnnualConjunction(t *testing.T) {
	t.Parallel()
	ctx := FilterContext{
		Period: Period{Mode: ModeAnalysis, Granularity: GranAnnual, First: PeriodSelector{Year: 2024}},
		Area:   "Sirmione",
	}
	got := Filter(sampleRows(), ctx)
	if len(got) != 1 {
		t.Fatalf("filtered %d rows, want 1", len(got))
	}
	if got[0].Boat != "Beluga" || got[0].Year != 2024 {
		t.Fatalf("unexpected row %+v", got[0])
	}
}

func TestFilterAllSentinelsPassEverything(t *testing.T) {
	t.Parallel()
	ctx := FilterContext{
		Period:        Period{Mode: ModeAnalysis, Granularity: GranAnnual, First: PeriodSelector{Year: 2024}},
		Area:          "Tutte",
		Boat:          "Tutte",
		DayType:       "Tutti",
		ClientSegment: "Tutti",
	}
	got := Filter(sampleRows(), ctx)
	if len(got) != 2 {
		t.Fatalf("filtered %d rows, want 2", len(got))
	}
}

func TestFilterComparisonIsUnionOfPeriods(t *testing.T) {
	t.Parallel()
	ctx := FilterContext{
		Period: Period{
			Mode:        ModeComparison,
			Granularity: GranMonthly,
			First:       PeriodSelector{Year: 2023, Month: 6},
			Second:      PeriodSelector{Year: 2024, Month: 6},
		},
	}
	got := Filter(sampleRows(), ctx)
	if len(got) != 2 {
		t.Fatalf("filtered %d rows, want 2", len(got))
	}
	for _, r := range got {
		if r.Month() != 6 {
			t.Fatalf("row outside either period: %+v", r)
		}
	}
}

func TestFilterCompareSelectorsKeepBothClasses(t *testing.T) {
	t.Parallel()
	ctx := FilterContext{
		Period:        Period{Mode: ModeAnalysis, Granularity: GranAnnual, First: PeriodSelector{Year: 2024}},
		DayType:       CompareDayTypes,
		ClientSegment: CompareSegments,
	}
	got := Filter(sampleRows(), ctx)
	if len(got) != 2 {
		t.Fatalf("filtered %d rows, want 2", len(got))
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	ok := FilterContext{Period: Period{Mode: ModeAnalysis, Granularity: GranAnnual, First: PeriodSelector{Year: 2024}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid context rejected: %v", err)
	}
	bad := []FilterContext{
		{Period: Period{Mode: "x", Granularity: GranAnnual, First: PeriodSelector{Year: 2024}}},
		{Period: Period{Mode: ModeAnalysis, Granularity: "daily", First: PeriodSelector{Year: 2024}}},
		{Period: Period{Mode: ModeAnalysis, Granularity: GranAnnual}},
		{Period: Period{Mode: ModeComparison, Granularity: GranAnnual, First: PeriodSelector{Year: 2024}}},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: invalid context accepted", i)
		}
	}
}

func TestPeriodLabels(t *testing.T) {
	t.Parallel()
	ctx := FilterContext{
		Period: Period{
			Mode:        ModeComparison,
			Granularity: GranAnnual,
			First:       PeriodSelector{Year: 2023},
			Second:      PeriodSelector{Year: 2024},
		},
	}
	first, second := ctx.ComparisonLabels()
	if first != "2023" || second != "2024" {
		t.Fatalf("labels = %q, %q", first, second)
	}
	r := sampleRows()[2]
	if got := ctx.PeriodLabel(r); got != "2024" {
		t.Fatalf("PeriodLabel = %q, want 2024", got)
	}
}
