package dash

import (
	"testing"
	"time"

	"GardaBoatsSaas/internal/dataset"
)

func TestYearGeometricTrend(t *testing.T) {
	t.Parallel()
	// means 100, 200, 400 over three years: two steps of x2
	sum := map[int]float64{2022: 200, 2023: 400, 2024: 800}
	n := map[int]int{2022: 2, 2023: 2, 2024: 2}
	if got := yearGeometricTrend(sum, n); got != 2 {
		t.Fatalf("trend = %v, want 2", got)
	}
	// a single observed year is flat
	if got := yearGeometricTrend(map[int]float64{2024: 100}, map[int]int{2024: 1}); got != 1 {
		t.Fatalf("single-year trend = %v, want 1", got)
	}
	if got := yearGeometricTrend(map[int]float64{2022: 0, 2024: 100}, map[int]int{2022: 1, 2024: 1}); got != 1 {
		t.Fatalf("zero-baseline trend = %v, want 1", got)
	}
}

func TestComputeSimulator(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	// two boats on one July day, one boat on another
	rows := []dataset.TripRecord{
		detailRow(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 100, 4),
		detailRow(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), "Libera", "Sirmione", "1h", 200, 6),
		detailRow(time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 300, 2),
	}

	res := ComputeSimulator(rows, simulatorRequest{Season: "altissima", Boats: map[string]int{"Sirmione": 4}}, now)
	if len(res.Areas) != 1 {
		t.Fatalf("areas = %+v", res.Areas)
	}
	sim := res.Areas[0]
	if sim.Boats != 4 {
		t.Fatalf("boats = %d", sim.Boats)
	}
	if sim.MaxBoatsSeen != 2 {
		t.Fatalf("max boats seen = %d, want 2", sim.MaxBoatsSeen)
	}
	// three boat-days over a max of two simultaneous boats
	if sim.ActiveDays != 1.5 {
		t.Fatalf("active days = %v, want 1.5", sim.ActiveDays)
	}
	if sim.MeanRevenue != 200.0 {
		t.Fatalf("mean revenue = %v, want 200", sim.MeanRevenue)
	}
	// single observed year: flat trend
	if sim.RevenueTrend != 1 || sim.ClientsTrend != 1 {
		t.Fatalf("trends = %v %v, want flat", sim.RevenueTrend, sim.ClientsTrend)
	}
	if sim.ProjectedRev != 1200.0 {
		t.Fatalf("projected revenue = %v, want 200*1.5*4", sim.ProjectedRev)
	}
	if res.TotalRevenue != sim.ProjectedRev {
		t.Fatalf("total = %v", res.TotalRevenue)
	}
}

func TestComputeSimulatorClampsBoats(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{
		detailRow(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 100, 4),
	}
	res := ComputeSimulator(rows, simulatorRequest{Season: "altissima", Boats: map[string]int{"Sirmione": 99, "Riva": 0}}, now)
	if len(res.Areas) != 2 {
		t.Fatalf("areas = %d", len(res.Areas))
	}
	for _, sim := range res.Areas {
		switch sim.Area {
		case "Sirmione":
			if sim.Boats != maxSimulatorBoats {
				t.Fatalf("Sirmione boats = %d, want clamped to %d", sim.Boats, maxSimulatorBoats)
			}
		case "Riva":
			if sim.Boats != 1 {
				t.Fatalf("Riva boats = %d, want raised to 1", sim.Boats)
			}
			if sim.ProjectedRev != 0 {
				t.Fatalf("Riva projection = %v, want 0 without history", sim.ProjectedRev)
			}
		}
	}
}

func TestComputeSimulatorUnknownSeasonFallsBack(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{
		detailRow(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 100, 4),
		// an April row is outside the fallback peak-season window
		detailRow(time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 900, 4),
	}
	res := ComputeSimulator(rows, simulatorRequest{Season: "inesistente", Boats: map[string]int{"Sirmione": 1}}, now)
	if res.Areas[0].MeanRevenue != 100.0 {
		t.Fatalf("mean revenue = %v, want only the July boat-day", res.Areas[0].MeanRevenue)
	}
}
