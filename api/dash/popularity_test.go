package dash

import (
	"testing"
	"time"

	"GardaBoatsSaas/internal/dataset"
)

func TestComputePopularityCountsTotalRows(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{
		{Date: day, Boat: "Beluga", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2024},
		{Date: day, Boat: "Beluga", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2024},
		{Date: day, Boat: "Libera", Area: "Sirmione", TourType: "2h", Kind: dataset.RowTotal, Year: 2024},
		// detail rows are ignored without a segment selector
		detailRow(day, "Beluga", "Sirmione", "30min", 50, 2),
	}

	res := ComputePopularity(rows, annualCtx(2024))
	if len(res.Top) != 2 {
		t.Fatalf("top has %d entries, want 2", len(res.Top))
	}
	if res.Top[0].TourType != "1h" || res.Top[0].Count != 2 {
		t.Fatalf("top entry = %+v", res.Top[0])
	}
	if res.Worst[0].TourType != "2h" || res.Worst[0].Count != 1 {
		t.Fatalf("worst entry = %+v", res.Worst[0])
	}
}

func TestComputePopularitySegmentSelectorUsesDetailRows(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	ctx := annualCtx(2024)
	ctx.ClientSegment = dataset.SegmentPrivate
	rows := []dataset.TripRecord{
		detailRow(day, "Beluga", "Sirmione", "1h", 150, 4),
		detailRow(day, "Beluga", "Sirmione", "1h", 150, 4),
		{Date: day, Boat: "Beluga", Area: "Sirmione", TourType: "2h", Kind: dataset.RowTotal, Year: 2024},
	}
	rows = dataset.Filter(rows, ctx)

	res := ComputePopularity(rows, ctx)
	if len(res.Top) != 1 || res.Top[0].TourType != "1h" || res.Top[0].Count != 2 {
		t.Fatalf("top = %+v, want the detail 1h tour twice", res.Top)
	}
}

func TestComputePopularityPerBoatBuckets(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	ctx := annualCtx(2024)
	ctx.Area = "Sirmione"
	rows := []dataset.TripRecord{
		{Date: day, Boat: "Beluga", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2024},
		{Date: day, Boat: "Libera", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2024},
	}

	res := ComputePopularity(rows, ctx)
	if len(res.Top) != 2 {
		t.Fatalf("top has %d entries, want one per boat", len(res.Top))
	}
	for _, c := range res.Top {
		if c.Boat == "" {
			t.Fatalf("entry missing boat bucket: %+v", c)
		}
	}
}

func TestNormalizedDeltas(t *testing.T) {
	t.Parallel()
	ctx := dataset.FilterContext{
		Period: dataset.Period{
			Mode:        dataset.ModeComparison,
			Granularity: dataset.GranAnnual,
			First:       dataset.PeriodSelector{Year: 2023},
			Second:      dataset.PeriodSelector{Year: 2024},
		},
	}
	d23 := time.Date(2023, 6, 3, 0, 0, 0, 0, time.UTC)
	d24 := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{
		// 2023: one boat, two 1h tours -> 2.0 per boat
		{Date: d23, Boat: "Beluga", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2023},
		{Date: d23, Boat: "Beluga", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2023},
		// 2024: two boats, two 1h tours -> 1.0 per boat
		{Date: d24, Boat: "Beluga", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2024},
		{Date: d24, Boat: "Libera", Area: "Sirmione", TourType: "1h", Kind: dataset.RowTotal, Year: 2024},
	}

	res := ComputePopularity(rows, ctx)
	if len(res.Increases) != 1 {
		t.Fatalf("increases = %+v", res.Increases)
	}
	d := res.Increases[0]
	if d.FirstNorm != 2.0 || d.SecondNorm != 1.0 || d.DeltaNorm != -1.0 {
		t.Fatalf("delta = %+v, want 2.0 -> 1.0", d)
	}
	if d.DeltaPct == nil || *d.DeltaPct != -50.0 {
		t.Fatalf("delta pct = %v, want -50", d.DeltaPct)
	}
}
