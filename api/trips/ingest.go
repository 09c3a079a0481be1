package trips

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"GardaBoatsSaas/internal/config"
	"GardaBoatsSaas/internal/dataset"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Sheet names containing any of these markers (after cleanup) are summary
// sheets, not day logs, and are skipped entirely.
var summaryMarkers = []string{"totale", "totali", "sintesi", "legenda"}

func isSummarySheet(name string) bool {
	clean := strings.ToLower(strings.TrimSpace(name))
	clean = strings.ReplaceAll(clean, "<", "")
	clean = strings.ReplaceAll(clean, ">", "")
	for _, marker := range summaryMarkers {
		if strings.Contains(clean, marker) {
			return true
		}
	}
	return false
}

// workbookSheet is one raw sheet grid plus its labels.
type workbookSheet struct {
	Name string
	Rows [][]string
}

func readWorkbook(data []byte, filename string) ([]workbookSheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		var sheets []workbookSheet
		for i := 0; i < wb.NumSheets(); i++ {
			sheet := wb.GetSheet(i)
			if sheet == nil {
				continue
			}
			var rows [][]string
			for rowIdx := 0; rowIdx <= int(sheet.MaxRow); rowIdx++ {
				row := sheet.Row(rowIdx)
				if row == nil {
					rows = append(rows, nil)
					continue
				}
				cells := make([]string, row.LastCol()+1)
				for c := 0; c <= row.LastCol(); c++ {
					cells[c] = row.Col(c)
				}
				rows = append(rows, cells)
			}
			sheets = append(sheets, workbookSheet{Name: sheet.Name, Rows: rows})
		}
		return sheets, nil
	case ".csv":
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, err
		}
		base := strings.TrimSuffix(filepath.Base(filename), ext)
		return []workbookSheet{{Name: base, Rows: rows}}, nil
	default:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		var sheets []workbookSheet
		for _, name := range f.GetSheetList() {
			rows, err := f.GetRows(name)
			if err != nil {
				continue
			}
			sheets = append(sheets, workbookSheet{Name: name, Rows: rows})
		}
		return sheets, nil
	}
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// ingestSheet turns one day-log sheet into trip records. The layout is
// fixed: two skipped rows, a header row, data in column window B..I with
// B=date, C=route, D=tour type, E=clients, F=boat, G=employee, H=revenue,
// I=fuel.
// The last data row of a non-empty sheet is the monthly total and is
// dropped. Blank dates are forward-filled from the prior row.
func ingestSheet(sheet workbookSheet, sourceFile string, now time.Time) (kept []dataset.TripRecord, dropped int) {
	rows := sheet.Rows
	if len(rows) <= config.SheetHeaderRows+1 {
		return nil, 0
	}
	data := rows[config.SheetHeaderRows+1:]
	if len(data) > 0 {
		data = data[:len(data)-1]
	}

	var lastDate time.Time
	var haveDate bool
	for _, row := range data {
		date, ok := ParseDayFirstDate(cell(row, config.SheetFirstCol))
		if !ok {
			if !haveDate {
				continue
			}
			date = lastDate
		} else {
			lastDate = date
			haveDate = true
		}

		employee := cell(row, config.SheetFirstCol+5)
		kind := rowKindOf(employee)
		boatRaw := cell(row, config.SheetFirstCol+4)
		boat := NormalizeBoat(boatRaw, kind)
		area := AreaOf(boat)
		if boat == "" || area == "" {
			dropped++
			continue
		}
		if date.After(now) {
			dropped++
			continue
		}

		clients := ParseClients(cell(row, config.SheetFirstCol+3))
		rec := dataset.TripRecord{
			Date:          date,
			Route:         cell(row, config.SheetFirstCol+1),
			TourType:      cell(row, config.SheetFirstCol+2),
			Clients:       clients,
			BoatRaw:       boatRaw,
			Boat:          boat,
			Employee:      employee,
			Revenue:       ParseCurrency(cell(row, config.SheetFirstCol+5+1)),
			Fuel:          ParseCurrency(cell(row, config.SheetFirstCol+5+2)),
			SheetLabel:    sheet.Name,
			SourceFile:    sourceFile,
			Kind:          kind,
			Year:          date.Year(),
			DayType:       DayTypeOf(date),
			ClientSegment: SegmentOf(kind, clients),
			Area:          area,
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}

// IngestWorkbook turns every non-summary sheet of one workbook into trip
// records.
func IngestWorkbook(data []byte, filename string, now time.Time) (kept []dataset.TripRecord, dropped int, err error) {
	sheets, err := readWorkbook(data, filename)
	if err != nil {
		return nil, 0, err
	}
	base := filepath.Base(filename)
	for _, sheet := range sheets {
		if isSummarySheet(sheet.Name) {
			continue
		}
		rows, d := ingestSheet(sheet, base, now)
		kept = append(kept, rows...)
		dropped += d
	}
	return kept, dropped, nil
}

// LoadDirectory ingests every workbook in dir matching the trip-log naming
// pattern, sorted by name so sheet order is stable across reloads.
func LoadDirectory(dir string, now time.Time) (kept []dataset.TripRecord, dropped int, warnings []string, err error) {
	pattern := filepath.Join(dir, config.DefaultTripGlob)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, 0, nil, err
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, 0, []string{fmt.Sprintf("nessun file trovato per %s", pattern)}, nil
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("lettura %s fallita: %v", filepath.Base(path), err))
			continue
		}
		rows, d, err := IngestWorkbook(data, path, now)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("parsing %s fallito: %v", filepath.Base(path), err))
			continue
		}
		kept = append(kept, rows...)
		dropped += d
	}
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d righe scartate (barca o area non risolta, o data futura)", dropped))
	}
	return kept, dropped, warnings, nil
}
