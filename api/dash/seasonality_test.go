package dash

import (
	"testing"
	"time"

	"GardaBoatsSaas/internal/dataset"
)

func TestComputeSeasonality(t *testing.T) {
	t.Parallel()
	rows := []dataset.TripRecord{
		totalRow(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", 1000, 50, 10),
		totalRow(time.Date(2023, 6, 6, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", 500, 50, 10),
		totalRow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", 2000, 50, 10),
		totalRow(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", 800, 50, 10),
		// detail rows stay out of the default trend
		detailRow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 100, 4),
	}
	ctx := annualCtx(2024)

	res := ComputeSeasonality(rows, ctx)
	if res.FirstYear != 2023 || res.LastYear != 2024 {
		t.Fatalf("year span = %d..%d", res.FirstYear, res.LastYear)
	}
	if len(res.Points) != 3 {
		t.Fatalf("points = %+v, want 3 (year,month) sums", res.Points)
	}
	if res.Points[0].Year != 2023 || res.Points[0].Month != 6 || res.Points[0].Revenue != 1500 {
		t.Fatalf("first point = %+v", res.Points[0])
	}

	// June mean over two years: (1500 + 2000) / 2
	var juneMean *SeasonMean
	for i := range res.HistoricalMean {
		if res.HistoricalMean[i].Month == 6 {
			juneMean = &res.HistoricalMean[i]
		}
	}
	if juneMean == nil || juneMean.MeanRevenue != 1750.0 {
		t.Fatalf("june mean = %+v, want 1750", juneMean)
	}
}

func TestComputeSeasonalitySegmentComparison(t *testing.T) {
	t.Parallel()
	ctx := annualCtx(2024)
	ctx.ClientSegment = dataset.CompareSegments
	rows := []dataset.TripRecord{
		detailRow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 100, 4),
		detailRow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 400, 10),
		totalRow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", 500, 50, 14),
	}

	res := ComputeSeasonality(rows, ctx)
	if len(res.Points) != 2 {
		t.Fatalf("points = %+v, want one per segment", res.Points)
	}
	for _, p := range res.Points {
		switch p.Group {
		case dataset.SegmentPrivate:
			if p.Revenue != 100 {
				t.Fatalf("private revenue = %v", p.Revenue)
			}
		case dataset.SegmentGroup:
			if p.Revenue != 400 {
				t.Fatalf("group revenue = %v", p.Revenue)
			}
		default:
			t.Fatalf("unexpected group %q", p.Group)
		}
	}
}
