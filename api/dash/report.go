package dash

import (
	"net/http"
	"sort"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
	"GardaBoatsSaas/internal/logger"

	"github.com/xuri/excelize/v2"
)

// GenerateReport builds the analytical workbook for the filtered dataset:
// a summary sheet, the monthly revenue trend, and the segment breakdown.
func GenerateReport(rows []dataset.TripRecord, ctx dataset.FilterContext) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#00396B"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center", Vertical: "center",
		},
	})
	if err != nil {
		return nil, err
	}
	numberStyle, err := f.NewStyle(&excelize.Style{
		NumFmt:    2,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, headerStyle, numberStyle, rows, ctx); err != nil {
		return nil, err
	}
	if err := writeTrendSheet(f, headerStyle, numberStyle, rows); err != nil {
		return nil, err
	}
	if err := writeSegmentSheet(f, headerStyle, numberStyle, rows); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)
	return f, nil
}

func reportCell(col, row int) string {
	c, _ := excelize.CoordinatesToCellName(col, row)
	return c
}

func writeSummarySheet(f *excelize.File, headerStyle, numberStyle int, rows []dataset.TripRecord, ctx dataset.FilterContext) error {
	sheet := "Sintesi"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	tot := dataset.OfKind(rows, dataset.RowTotal)
	kpi := ComputeKPI(rows, ctx)

	var start, end string
	if len(tot) > 0 {
		first, last := tot[0].Date, tot[0].Date
		for _, r := range tot {
			if r.Date.Before(first) {
				first = r.Date
			}
			if r.Date.After(last) {
				last = r.Date
			}
		}
		start = first.Format(constants.DateFormat)
		end = last.Format(constants.DateFormat)
	}

	title := reportCell(1, 1)
	_ = f.SetCellValue(sheet, title, "Report Analitico Tour Boat Taxi")
	_ = f.SetCellStyle(sheet, title, title, headerStyle)

	lines := []struct {
		label string
		value interface{}
	}{
		{"Periodo analisi", start + " - " + end},
		{"Contesto", kpi.Context},
		{"Incasso totale", kpi.TotalRevenue},
		{"Numero clienti", dataset.SumClients(tot)},
		{"Tour effettuati", kpi.TourCount},
	}
	row := 3
	for _, l := range lines {
		_ = f.SetCellValue(sheet, reportCell(1, row), l.label)
		c := reportCell(2, row)
		_ = f.SetCellValue(sheet, c, l.value)
		if _, isNum := l.value.(float64); isNum {
			_ = f.SetCellStyle(sheet, c, c, numberStyle)
		}
		row++
	}
	_ = f.SetCellValue(sheet, reportCell(1, row), "Efficienza €/litro")
	if kpi.Efficiency != nil {
		c := reportCell(2, row)
		_ = f.SetCellValue(sheet, c, *kpi.Efficiency)
		_ = f.SetCellStyle(sheet, c, c, numberStyle)
	} else {
		_ = f.SetCellValue(sheet, reportCell(2, row), constants.NotAvailable)
	}
	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	return nil
}

func writeTrendSheet(f *excelize.File, headerStyle, numberStyle int, rows []dataset.TripRecord) error {
	sheet := "Trend Mensile"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Anno", "Mese", "Incasso", "Clienti", "Tour"}
	for i, h := range headers {
		c := reportCell(i+1, 1)
		_ = f.SetCellValue(sheet, c, h)
		_ = f.SetCellStyle(sheet, c, c, headerStyle)
	}

	type ym struct{ year, month int }
	type acc struct {
		revenue float64
		clients float64
		tours   int
	}
	groups := map[ym]*acc{}
	for _, r := range dataset.OfKind(rows, dataset.RowTotal) {
		k := ym{year: r.Year, month: r.Month()}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		if r.Revenue != nil {
			a.revenue += *r.Revenue
		}
		if r.Clients != nil {
			a.clients += float64(*r.Clients)
		}
		a.tours++
	}
	keys := make([]ym, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	for i, k := range keys {
		a := groups[k]
		row := i + 2
		_ = f.SetCellValue(sheet, reportCell(1, row), k.year)
		_ = f.SetCellValue(sheet, reportCell(2, row), k.month)
		_ = f.SetCellValue(sheet, reportCell(3, row), a.revenue)
		_ = f.SetCellStyle(sheet, reportCell(3, row), reportCell(3, row), numberStyle)
		_ = f.SetCellValue(sheet, reportCell(4, row), a.clients)
		_ = f.SetCellValue(sheet, reportCell(5, row), a.tours)
	}
	return nil
}

func writeSegmentSheet(f *excelize.File, headerStyle, numberStyle int, rows []dataset.TripRecord) error {
	sheet := "Segmenti"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Segmento", "Incasso", "Incasso medio", "Tour"}
	for i, h := range headers {
		c := reportCell(i+1, 1)
		_ = f.SetCellValue(sheet, c, h)
		_ = f.SetCellStyle(sheet, c, c, headerStyle)
	}

	type acc struct {
		revenue float64
		n       int
	}
	groups := map[string]*acc{}
	for _, r := range dataset.OfKind(rows, dataset.RowDetail) {
		if r.ClientSegment == "" {
			continue
		}
		a, ok := groups[r.ClientSegment]
		if !ok {
			a = &acc{}
			groups[r.ClientSegment] = a
		}
		if r.Revenue != nil {
			a.revenue += *r.Revenue
		}
		a.n++
	}
	segments := make([]string, 0, len(groups))
	for s := range groups {
		segments = append(segments, s)
	}
	sort.Strings(segments)

	for i, s := range segments {
		a := groups[s]
		row := i + 2
		_ = f.SetCellValue(sheet, reportCell(1, row), s)
		_ = f.SetCellValue(sheet, reportCell(2, row), a.revenue)
		_ = f.SetCellStyle(sheet, reportCell(2, row), reportCell(2, row), numberStyle)
		if a.n > 0 {
			_ = f.SetCellValue(sheet, reportCell(3, row), a.revenue/float64(a.n))
			_ = f.SetCellStyle(sheet, reportCell(3, row), reportCell(3, row), numberStyle)
		}
		_ = f.SetCellValue(sheet, reportCell(4, row), a.n)
	}
	return nil
}

// Report streams the analytical workbook as an xlsx download.
func Report(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, rows, ok := decodeView(w, r, store)
		if !ok {
			return
		}
		if len(rows) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		f, err := GenerateReport(rows, ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Generazione report fallita: "+err.Error())
			return
		}
		w.Header().Set("Content-Type", constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", `attachment; filename="report_analitico.xlsx"`)
		if err := f.Write(w); err != nil {
			logger.Audit("[DASH] report write failed: " + err.Error())
		}
	}
}
