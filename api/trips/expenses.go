package trips

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"GardaBoatsSaas/internal/dataset"

	"github.com/xuri/excelize/v2"
)

// Macro categories assigned by ClassifyExpense.
const (
	MacroNewPurchase   = "Acquisto nuovo"
	MacroCommissions   = "Provvigioni"
	MacroFuel          = "Gasolio"
	MacroSalaries      = "Stipendi"
	MacroFixedCosts    = "Spese fisse"
	MacroVariableCosts = "Spese variabili"
	MacroOther         = "Altro"
)

// expenseHeaders maps the ledger's uppercase header names to record fields.
// Headers are matched case-insensitively after trimming.
var expenseHeaders = map[string]string{
	"DATA":             "date",
	"COSTO":            "cost",
	"TIPO SPESA":       "type",
	"FORNITORE":        "supplier",
	"CATEGORIA":        "category",
	"DESTINAZIONE":     "destination",
	"METODO PAGAMENTO": "payment",
}

// ClassifyExpense assigns the macro category from the free-text category
// and expense type. Rules are ordered: the first match wins.
func ClassifyExpense(category, expenseType string) string {
	cat := strings.ToLower(strings.TrimSpace(category))
	tipo := strings.ToLower(strings.TrimSpace(expenseType))
	switch {
	case strings.Contains(cat, "acquisto nuovo"):
		return MacroNewPurchase
	case strings.Contains(cat, "provvigioni"):
		return MacroCommissions
	case strings.Contains(cat, "gasolio"):
		return MacroFuel
	case strings.Contains(cat, "stipendi") || strings.Contains(cat, "f24"):
		return MacroSalaries
	case tipo == "fissi" &&
		!strings.Contains(cat, "acquisto nuovo") &&
		!strings.Contains(cat, "gasolio") &&
		!strings.Contains(cat, "provvigioni") &&
		!strings.Contains(cat, "tasse"):
		return MacroFixedCosts
	case tipo == "variabili" &&
		!strings.Contains(cat, "acquisto nuovo") &&
		!strings.Contains(cat, "provvigioni"):
		return MacroVariableCosts
	default:
		return MacroOther
	}
}

func expenseGrid(data []byte, filename string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xlsx" || ext == ".xlsm" {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("nessun foglio nel file spese")
		}
		return f.GetRows(sheets[0])
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// IngestExpenses parses the cost ledger. The first row is the header; DATA
// and COSTO are required, the other columns are optional. Every kept row
// gets its macro category assigned.
func IngestExpenses(data []byte, filename string) ([]dataset.ExpenseRecord, error) {
	rows, err := expenseGrid(data, filename)
	if err != nil {
		return nil, fmt.Errorf("lettura file spese fallita: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file spese vuoto")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToUpper(strings.TrimSpace(h))
		if field, ok := expenseHeaders[key]; ok {
			colIdx[field] = i
		}
	}
	dateCol, haveDate := colIdx["date"]
	costCol, haveCost := colIdx["cost"]
	if !haveDate || !haveCost {
		return nil, fmt.Errorf("colonne DATA e COSTO obbligatorie nel file spese")
	}

	field := func(row []string, name string) string {
		idx, ok := colIdx[name]
		if !ok {
			return ""
		}
		return cell(row, idx)
	}

	var out []dataset.ExpenseRecord
	for _, row := range rows[1:] {
		date, ok := ParseDayFirstDate(cell(row, dateCol))
		if !ok {
			continue
		}
		rec := dataset.ExpenseRecord{
			Date:          date,
			Cost:          ParseLedgerCost(cell(row, costCol)),
			Type:          field(row, "type"),
			Supplier:      field(row, "supplier"),
			Category:      field(row, "category"),
			Destination:   field(row, "destination"),
			PaymentMethod: field(row, "payment"),
		}
		rec.MacroCategory = ClassifyExpense(rec.Category, rec.Type)
		out = append(out, rec)
	}
	return out, nil
}
