package trips

import (
	"testing"
	"time"

	"GardaBoatsSaas/internal/dataset"
)

func TestNormalizeBoatAbbreviations(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		kind string
		want string
	}{
		{"Bel", dataset.RowDetail, "Beluga"},
		{"bel", dataset.RowDetail, "Beluga"},
		{"Kia", dataset.RowDetail, "Kiar di Luna"},
		{"Riv", dataset.RowDetail, "Riva"},
		// abbreviations never apply to monthly total rows
		{"Bel", dataset.RowTotal, ""},
		{"Beluga", dataset.RowTotal, "Beluga"},
		{"beluga", dataset.RowTotal, "Beluga"},
		{"Sconosciuta", dataset.RowDetail, ""},
		{"", dataset.RowDetail, ""},
	}
	for _, c := range cases {
		if got := NormalizeBoat(c.raw, c.kind); got != c.want {
			t.Fatalf("NormalizeBoat(%q, %s) = %q, want %q", c.raw, c.kind, got, c.want)
		}
	}
}

func TestNormalizeBoatAuroraGlyphs(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"L'Aurora", "L’Aurora", "l'aurora", "L‘Aurora"} {
		if got := NormalizeBoat(raw, dataset.RowTotal); got != "L’Aurora" {
			t.Fatalf("NormalizeBoat(%q) = %q, want L’Aurora", raw, got)
		}
	}
}

func TestAreaOf(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Beluga":   "Sirmione",
		"Eternity": "Desenzano",
		"L’Aurora": "Desenzano",
		"Columbus": "BSD",
		"Candido":  "Exclusive",
		"Riva":     "Riva",
		"Nessuna":  "",
	}
	for boat, want := range cases {
		if got := AreaOf(boat); got != want {
			t.Fatalf("AreaOf(%q) = %q, want %q", boat, got, want)
		}
	}
}

func TestDayTypeOf(t *testing.T) {
	t.Parallel()
	sat := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := DayTypeOf(sat); got != dataset.DayHigh {
		t.Fatalf("saturday = %q, want %q", got, dataset.DayHigh)
	}
	mon := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if got := DayTypeOf(mon); got != dataset.DayLow {
		t.Fatalf("monday = %q, want %q", got, dataset.DayLow)
	}
}

func TestSegmentOf(t *testing.T) {
	t.Parallel()
	five, six := 5, 6
	if got := SegmentOf(dataset.RowDetail, &five); got != dataset.SegmentPrivate {
		t.Fatalf("5 clients = %q, want %q", got, dataset.SegmentPrivate)
	}
	if got := SegmentOf(dataset.RowDetail, &six); got != dataset.SegmentGroup {
		t.Fatalf("6 clients = %q, want %q", got, dataset.SegmentGroup)
	}
	if got := SegmentOf(dataset.RowTotal, &six); got != "" {
		t.Fatalf("total row segment = %q, want empty", got)
	}
	if got := SegmentOf(dataset.RowDetail, nil); got != "" {
		t.Fatalf("nil clients segment = %q, want empty", got)
	}
}
