package dash

import (
	"testing"
	"time"

	"GardaBoatsSaas/internal/dataset"
)

func annualCtx(year int) dataset.FilterContext {
	return dataset.FilterContext{
		Period: dataset.Period{
			Mode:        dataset.ModeAnalysis,
			Granularity: dataset.GranAnnual,
			First:       dataset.PeriodSelector{Year: year},
		},
	}
}

func totalRow(date time.Time, boat, area string, revenue, fuel float64, clients int) dataset.TripRecord {
	return dataset.TripRecord{
		Date:     date,
		Boat:     boat,
		Area:     area,
		Kind:     dataset.RowTotal,
		Year:     date.Year(),
		DayType:  dayTypeFor(date),
		Employee: "Marco",
		Revenue:  dataset.Float(revenue),
		Fuel:     dataset.Float(fuel),
		Clients:  dataset.Int(clients),
	}
}

func detailRow(date time.Time, boat, area, tour string, revenue float64, clients int) dataset.TripRecord {
	seg := dataset.SegmentPrivate
	if clients > 5 {
		seg = dataset.SegmentGroup
	}
	return dataset.TripRecord{
		Date:          date,
		Boat:          boat,
		Area:          area,
		TourType:      tour,
		Kind:          dataset.RowDetail,
		Year:          date.Year(),
		DayType:       dayTypeFor(date),
		ClientSegment: seg,
		Revenue:       dataset.Float(revenue),
		Clients:       dataset.Int(clients),
	}
}

func dayTypeFor(date time.Time) string {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return dataset.DayHigh
	}
	return dataset.DayLow
}

func TestComputeKPI(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{
		totalRow(day, "Beluga", "Sirmione", 450, 50, 12),
		totalRow(day.AddDate(0, 0, 1), "Libera", "Sirmione", 350, 30, 8),
		// detail rows never feed the headline metrics
		detailRow(day, "Beluga", "Sirmione", "1h", 150, 4),
	}

	res := ComputeKPI(rows, annualCtx(2024))
	if res.TotalRevenue != 800 {
		t.Fatalf("total revenue = %v, want 800", res.TotalRevenue)
	}
	if res.TourCount != 2 {
		t.Fatalf("tour count = %d, want 2", res.TourCount)
	}
	if res.MeanClients == nil || *res.MeanClients != 10.0 {
		t.Fatalf("mean clients = %v, want 10", res.MeanClients)
	}
	if res.Efficiency == nil || *res.Efficiency != 10.0 {
		t.Fatalf("efficiency = %v, want 10 (800/80)", res.Efficiency)
	}
}

func TestComputeKPIMissingDenominators(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{{
		Date:    day,
		Boat:    "Beluga",
		Area:    "Sirmione",
		Kind:    dataset.RowTotal,
		Year:    2024,
		Revenue: dataset.Float(500),
	}}
	res := ComputeKPI(rows, annualCtx(2024))
	if res.MeanClients != nil {
		t.Fatalf("mean clients = %v, want nil without counts", res.MeanClients)
	}
	if res.Efficiency != nil {
		t.Fatalf("efficiency = %v, want nil without fuel", res.Efficiency)
	}
}
