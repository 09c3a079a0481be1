package dash

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/api/utils"
	"GardaBoatsSaas/internal/dataset"
)

// expenseRequest filters the cost ledger.
type expenseRequest struct {
	Year        int    `json:"year,omitempty"`
	Month       int    `json:"month,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// ExpenseBucket is one named total of the breakdowns.
type ExpenseBucket struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// ExpenseMonth is the total spend of one calendar month.
type ExpenseMonth struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// ExpensesResult is the cost analysis: fixed/variable split, macro
// categories, top suppliers and destinations, and the monthly trend.
type ExpensesResult struct {
	FixedTotal      float64                 `json:"fixed_total"`
	VariableTotal   float64                 `json:"variable_total"`
	MacroCategories []ExpenseBucket         `json:"macro_categories"`
	TopCategories   []ExpenseBucket         `json:"top_categories"`
	TopSuppliers    []ExpenseBucket         `json:"top_suppliers"`
	TopDestinations []ExpenseBucket         `json:"top_destinations"`
	MonthlyTrend    []ExpenseMonth          `json:"monthly_trend"`
	Rows            []dataset.ExpenseRecord `json:"rows"`
	Pagination      *utils.PaginationParams `json:"pagination,omitempty"`
}

func topBuckets(totals map[string]float64, limit int) []ExpenseBucket {
	out := make([]ExpenseBucket, 0, len(totals))
	for name, total := range totals {
		out = append(out, ExpenseBucket{Name: name, Total: round2(total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ComputeExpenses filters the ledger and builds every breakdown. Rows are
// paged when page is set, capped at 50 otherwise.
func ComputeExpenses(rows []dataset.ExpenseRecord, req expenseRequest, page *utils.PaginationParams) ExpensesResult {
	filtered := make([]dataset.ExpenseRecord, 0, len(rows))
	for _, r := range rows {
		if req.Year != 0 && r.Date.Year() != req.Year {
			continue
		}
		if req.Month != 0 && int(r.Date.Month()) != req.Month {
			continue
		}
		if req.Destination != "" && req.Destination != "Tutte" && r.Destination != req.Destination {
			continue
		}
		filtered = append(filtered, r)
	}

	res := ExpensesResult{Rows: filtered}
	if page != nil {
		page.SetPaginationStats(len(filtered))
		start, end := page.Bounds(len(filtered))
		res.Rows = filtered[start:end]
		res.Pagination = page
	} else if len(res.Rows) > 50 {
		res.Rows = res.Rows[:50]
	}

	byMacro := map[string]float64{}
	byCategory := map[string]float64{}
	bySupplier := map[string]float64{}
	byDestination := map[string]float64{}
	type ym struct{ year, month int }
	byMonth := map[ym]float64{}
	for _, r := range filtered {
		if r.Cost == nil {
			continue
		}
		cost := *r.Cost
		switch strings.ToLower(r.Type) {
		case "fissi":
			res.FixedTotal += cost
		case "variabili":
			res.VariableTotal += cost
		}
		byMacro[r.MacroCategory] += cost
		if r.Category != "" {
			byCategory[r.Category] += cost
		}
		if r.Supplier != "" {
			bySupplier[r.Supplier] += cost
		}
		if r.Destination != "" {
			byDestination[r.Destination] += cost
		}
		byMonth[ym{year: r.Date.Year(), month: int(r.Date.Month())}] += cost
	}
	res.FixedTotal = round2(res.FixedTotal)
	res.VariableTotal = round2(res.VariableTotal)
	res.MacroCategories = topBuckets(byMacro, 0)
	res.TopCategories = topBuckets(byCategory, 10)
	res.TopSuppliers = topBuckets(bySupplier, 10)
	res.TopDestinations = topBuckets(byDestination, 10)

	res.MonthlyTrend = make([]ExpenseMonth, 0, len(byMonth))
	for k, total := range byMonth {
		res.MonthlyTrend = append(res.MonthlyTrend, ExpenseMonth{Year: k.year, Month: k.month, Total: round2(total)})
	}
	sort.Slice(res.MonthlyTrend, func(i, j int) bool {
		if res.MonthlyTrend[i].Year != res.MonthlyTrend[j].Year {
			return res.MonthlyTrend[i].Year < res.MonthlyTrend[j].Year
		}
		return res.MonthlyTrend[i].Month < res.MonthlyTrend[j].Month
	})
	return res
}

// Expenses handles the cost-analysis view.
func Expenses(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req expenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		ledger, err := store.Expenses()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrExpensesUnavailable+": "+err.Error())
			return
		}
		if len(ledger) == 0 {
			api.RespondNoData(w, constants.ErrExpensesUnavailable)
			return
		}
		var page *utils.PaginationParams
		if r.URL.Query().Get("page") != "" || r.URL.Query().Get("limit") != "" {
			p, err := utils.ExtractPagination(r)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			page = &p
		}
		api.RespondWithPayload(w, true, "", ComputeExpenses(ledger, req, page))
	}
}
