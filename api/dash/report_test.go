package dash

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"GardaBoatsSaas/internal/dataset"
)

func TestGenerateReportSheets(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rows := []dataset.TripRecord{
		totalRow(day, "Beluga", "Sirmione", 450, 50, 12),
		totalRow(day.AddDate(0, 1, 0), "Beluga", "Sirmione", 600, 40, 15),
		detailRow(day, "Beluga", "Sirmione", "1h", 150, 4),
		detailRow(day, "Beluga", "Sirmione", "2h", 300, 8),
	}

	f, err := GenerateReport(rows, annualCtx(2024))
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reopened, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reopened.Close()

	sheets := reopened.GetSheetList()
	want := map[string]bool{"Sintesi": false, "Trend Mensile": false, "Segmenti": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
		if s == "Sheet1" {
			t.Fatal("default sheet should be removed")
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("sheet %q missing, have %v", name, sheets)
		}
	}

	trend, err := reopened.GetRows("Trend Mensile")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// a header row plus one row per month with Total data
	if len(trend) != 3 {
		t.Fatalf("trend sheet has %d rows, want 3", len(trend))
	}
}
