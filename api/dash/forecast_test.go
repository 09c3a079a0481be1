package dash

import (
	"testing"
	"time"

	"GardaBoatsSaas/internal/dataset"
)

func TestComputeForecastProvenance(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{
		// history feeding the projection baseline
		detailRow(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 3000, 4),
		detailRow(time.Date(2023, 8, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 3100, 4),
		// current-year actuals
		totalRow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", 2800, 200, 40),
		detailRow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 2800, 4),
	}

	res := ComputeForecast(rows, forecastRequest{}, now)
	if res.Year != 2024 {
		t.Fatalf("year = %d", res.Year)
	}
	if len(res.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(res.Months))
	}
	for _, m := range res.Months {
		var want string
		switch {
		case m.Month < 7:
			want = ForecastActual
		case m.Month == 7:
			want = ForecastMixed
		default:
			want = ForecastProjected
		}
		if m.Kind != want {
			t.Fatalf("month %d kind = %q, want %q", m.Month, m.Kind, want)
		}
	}
	june := res.Months[5]
	if june.Revenue != 2800 {
		t.Fatalf("june actual revenue = %v, want the Total-row sum", june.Revenue)
	}
	if june.Clients != 40 {
		t.Fatalf("june actual clients = %v, want 40", june.Clients)
	}
}

func TestAdjustmentFactorDefaultsToOne(t *testing.T) {
	t.Parallel()
	if got := adjustmentFactor(500, 0, false); got != 1 {
		t.Fatalf("factor without history = %v, want 1", got)
	}
	if got := adjustmentFactor(500, 0, true); got != 1 {
		t.Fatalf("factor with zero baseline = %v, want 1", got)
	}
	if got := adjustmentFactor(150, 100, true); got != 1.5 {
		t.Fatalf("factor = %v, want 1.5", got)
	}
}

func TestBoatsPerAreaMonthFlattensHighSeason(t *testing.T) {
	t.Parallel()
	var historical []dataset.TripRecord
	// 2023: two boats in June, one in August, one in January
	for _, boat := range []string{"Beluga", "Libera"} {
		historical = append(historical, detailRow(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC), boat, "Sirmione", "1h", 100, 4))
	}
	historical = append(historical,
		detailRow(time.Date(2023, 8, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 100, 4),
		detailRow(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 100, 4),
	)
	// current year: three boats observed in July
	var current []dataset.TripRecord
	for _, boat := range []string{"Beluga", "Libera", "Ghibli"} {
		current = append(current, detailRow(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), boat, "Sirmione", "1h", 100, 4))
	}

	boats := boatsPerAreaMonth(historical, current, []string{"Sirmione"})

	// every high season month carries the season maximum
	for month := 3; month <= 10; month++ {
		if boats["Sirmione"][month] != 3 {
			t.Fatalf("month %d = %d boats, want the flattened max 3", month, boats["Sirmione"][month])
		}
	}
	// low season keeps the historical monthly mean
	if boats["Sirmione"][1] != 1 {
		t.Fatalf("january = %d boats, want 1", boats["Sirmione"][1])
	}
	if _, ok := boats["Sirmione"][2]; ok {
		t.Fatal("february has no history and should have no estimate")
	}
}

func TestMonthProjectionPrivateShare(t *testing.T) {
	t.Parallel()
	historical := []dataset.TripRecord{
		detailRow(time.Date(2023, 8, 5, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "1h", 300, 4),
		detailRow(time.Date(2023, 8, 6, 0, 0, 0, 0, time.UTC), "Beluga", "Sirmione", "2h", 700, 10),
	}
	rev, cli, pPriv := monthProjection(historical, 8, 2, 1, 1)
	if rev != 1000 {
		t.Fatalf("projected revenue = %v, want the yearly mean 1000", rev)
	}
	if cli != 14 {
		t.Fatalf("projected clients = %v, want 14", cli)
	}
	if pPriv != 0.3 {
		t.Fatalf("private share = %v, want 0.3", pPriv)
	}

	// no boats estimated means no projection
	rev, cli, pPriv = monthProjection(historical, 8, 0, 1, 1)
	if rev != 0 || cli != 0 || pPriv != 0.5 {
		t.Fatalf("zero-boat projection = %v %v %v", rev, cli, pPriv)
	}
}
