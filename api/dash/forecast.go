package dash

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/config"
	"GardaBoatsSaas/internal/dataset"
)

// Forecast row provenance.
const (
	ForecastActual    = "DATO REALE"
	ForecastMixed     = "PARTE REALE + PREVISIONE"
	ForecastProjected = "PREVISIONE"
)

// ForecastMonth is one month of the current-year projection.
type ForecastMonth struct {
	Month          int     `json:"month"`
	MonthName      string  `json:"month_name"`
	ActiveBoats    int     `json:"active_boats"`
	Revenue        float64 `json:"revenue"`
	Clients        float64 `json:"clients"`
	RevenuePrivate float64 `json:"revenue_private"`
	ClientsPrivate float64 `json:"clients_private"`
	RevenueGroup   float64 `json:"revenue_group"`
	ClientsGroup   float64 `json:"clients_group"`
	Kind           string  `json:"kind"`
}

// ForecastAreaBoats is the estimated fleet size for one area and month.
type ForecastAreaBoats struct {
	Month int    `json:"month"`
	Area  string `json:"area"`
	Boats int    `json:"boats"`
}

// ForecastResult is the twelve-month projection with its adjustment factors.
type ForecastResult struct {
	Year          int                 `json:"year"`
	RevenueFactor float64             `json:"revenue_factor"`
	ClientsFactor float64             `json:"clients_factor"`
	Months        []ForecastMonth     `json:"months"`
	AreaBoats     []ForecastAreaBoats `json:"area_boats,omitempty"`
}

// forecastRequest filters the projection base. The forecast always spans the
// whole history, so no period selector is accepted.
type forecastRequest struct {
	DayType       string `json:"day_type,omitempty"`
	ClientSegment string `json:"client_segment,omitempty"`
	Area          string `json:"area,omitempty"`
	Boat          string `json:"boat,omitempty"`
}

func (q forecastRequest) apply(rows []dataset.TripRecord) []dataset.TripRecord {
	out := make([]dataset.TripRecord, 0, len(rows))
	for _, r := range rows {
		switch q.DayType {
		case "", "Tutti", dataset.CompareDayTypes:
		default:
			if r.DayType != q.DayType {
				continue
			}
		}
		switch q.ClientSegment {
		case "", "Tutti":
		case dataset.CompareSegments:
			if r.ClientSegment != dataset.SegmentPrivate && r.ClientSegment != dataset.SegmentGroup {
				continue
			}
		default:
			if r.ClientSegment != q.ClientSegment {
				continue
			}
		}
		if q.Area != "" && q.Area != "Tutte" && r.Area != q.Area {
			continue
		}
		if q.Boat != "" && q.Boat != "Tutte" && r.Boat != q.Boat {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sumDetailRevenue(rows []dataset.TripRecord, match func(dataset.TripRecord) bool) (revenue, clients float64) {
	for _, r := range rows {
		if r.Kind != dataset.RowDetail || !match(r) {
			continue
		}
		if r.Revenue != nil {
			revenue += *r.Revenue
		}
		if r.Clients != nil {
			clients += float64(*r.Clients)
		}
	}
	return revenue, clients
}

// yearlyMean averages a per-year aggregate over the years present.
func yearlyMean(perYear map[int]float64) (float64, bool) {
	if len(perYear) == 0 {
		return 0, false
	}
	var total float64
	for _, v := range perYear {
		total += v
	}
	return total / float64(len(perYear)), true
}

// adjustmentFactor compares the current year-to-date against the historical
// mean of the same months. Defaults to 1 without a positive baseline.
func adjustmentFactor(current, historicalMean float64, haveHistory bool) float64 {
	if !haveHistory || historicalMean <= 0 {
		return 1
	}
	return current / historicalMean
}

// boatsPerAreaMonth estimates the active fleet per area and month. Low
// season months use the rounded historical mean of distinct boats; high
// season months all share the seasonal maximum of observed and historical
// fleet sizes.
func boatsPerAreaMonth(historical, currentYearRows []dataset.TripRecord, areas []string) map[string]map[int]int {
	distinct := func(rows []dataset.TripRecord, area string, month int) map[int]map[string]bool {
		perYear := map[int]map[string]bool{}
		for _, r := range rows {
			if r.Area != area || r.Month() != month {
				continue
			}
			if perYear[r.Year] == nil {
				perYear[r.Year] = map[string]bool{}
			}
			perYear[r.Year][r.Boat] = true
		}
		return perYear
	}
	histMean := func(area string, month int) (int, bool) {
		perYear := distinct(historical, area, month)
		if len(perYear) == 0 {
			return 0, false
		}
		var total int
		for _, boats := range perYear {
			total += len(boats)
		}
		mean := float64(total) / float64(len(perYear))
		return int(mean + 0.5), true
	}

	out := map[string]map[int]int{}
	for _, area := range areas {
		out[area] = map[int]int{}
		for month := range config.LowSeasonMonths {
			if n, ok := histMean(area, month); ok {
				out[area][month] = n
			}
		}
		seasonMax := 0
		for month := 1; month <= 12; month++ {
			if config.LowSeasonMonths[month] {
				continue
			}
			observed := map[string]bool{}
			for _, r := range currentYearRows {
				if r.Area == area && r.Month() == month {
					observed[r.Boat] = true
				}
			}
			if len(observed) > seasonMax {
				seasonMax = len(observed)
			}
			if n, ok := histMean(area, month); ok && n > seasonMax {
				seasonMax = n
			}
		}
		for month := 1; month <= 12; month++ {
			if !config.LowSeasonMonths[month] {
				out[area][month] = seasonMax
			}
		}
	}
	return out
}

// ComputeForecast projects the current year month by month: closed months
// report Total-row actuals, the running month blends actuals with a
// remaining-days projection, future months are fully projected from the
// historical baseline scaled by the year-to-date adjustment factor.
func ComputeForecast(rows []dataset.TripRecord, req forecastRequest, now time.Time) ForecastResult {
	base := req.apply(rows)
	currentYear := now.Year()

	var historical, current []dataset.TripRecord
	for _, r := range base {
		if r.Year < currentYear {
			historical = append(historical, r)
		} else if r.Year == currentYear {
			current = append(current, r)
		}
	}

	var areas []string
	if req.Area != "" && req.Area != "Tutte" {
		areas = []string{req.Area}
	} else {
		areas = dataset.DistinctAreas(base)
	}

	// Year-to-date adjustment factors on Detail rows, closed months only.
	closed := func(r dataset.TripRecord) bool { return r.Month() < int(now.Month()) }
	curRev, curCli := sumDetailRevenue(current, closed)
	histRevPerYear := map[int]float64{}
	histCliPerYear := map[int]float64{}
	for _, r := range historical {
		if r.Kind != dataset.RowDetail || !closed(r) {
			continue
		}
		if r.Revenue != nil {
			histRevPerYear[r.Year] += *r.Revenue
		}
		if r.Clients != nil {
			histCliPerYear[r.Year] += float64(*r.Clients)
		}
	}
	histRevMean, haveRev := yearlyMean(histRevPerYear)
	histCliMean, haveCli := yearlyMean(histCliPerYear)
	revFactor := adjustmentFactor(curRev, histRevMean, haveRev)
	cliFactor := adjustmentFactor(curCli, histCliMean, haveCli)

	boats := boatsPerAreaMonth(historical, current, areas)

	res := ForecastResult{
		Year:          currentYear,
		RevenueFactor: round2(revFactor),
		ClientsFactor: round2(cliFactor),
	}

	for month := 1; month <= 12; month++ {
		nBoats := 0
		for _, a := range areas {
			nBoats += boats[a][month]
		}
		row := ForecastMonth{
			Month:       month,
			MonthName:   time.Month(month).String(),
			ActiveBoats: nBoats,
		}
		inMonth := func(r dataset.TripRecord) bool { return r.Month() == month }

		switch {
		case month < int(now.Month()):
			row.Kind = ForecastActual
			for _, r := range current {
				if !inMonth(r) || r.Kind != dataset.RowTotal {
					continue
				}
				if r.Revenue != nil {
					row.Revenue += *r.Revenue
				}
				if r.Clients != nil {
					row.Clients += float64(*r.Clients)
				}
			}
			row.RevenuePrivate, row.ClientsPrivate = sumDetailRevenue(current, func(r dataset.TripRecord) bool {
				return inMonth(r) && r.ClientSegment == dataset.SegmentPrivate
			})
			row.RevenueGroup, row.ClientsGroup = sumDetailRevenue(current, func(r dataset.TripRecord) bool {
				return inMonth(r) && r.ClientSegment == dataset.SegmentGroup
			})

		case month == int(now.Month()):
			row.Kind = ForecastMixed
			daysInMonth := time.Date(currentYear, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
			remaining := daysInMonth - now.Day()

			toDate := func(r dataset.TripRecord) bool { return inMonth(r) && r.Date.Day() <= now.Day() }
			for _, r := range current {
				if !toDate(r) || r.Kind != dataset.RowTotal {
					continue
				}
				if r.Revenue != nil {
					row.Revenue += *r.Revenue
				}
				if r.Clients != nil {
					row.Clients += float64(*r.Clients)
				}
			}
			row.RevenuePrivate, row.ClientsPrivate = sumDetailRevenue(current, func(r dataset.TripRecord) bool {
				return toDate(r) && r.ClientSegment == dataset.SegmentPrivate
			})
			row.RevenueGroup, row.ClientsGroup = sumDetailRevenue(current, func(r dataset.TripRecord) bool {
				return toDate(r) && r.ClientSegment == dataset.SegmentGroup
			})

			projRev, projCli, pPriv := monthProjection(historical, month, nBoats, revFactor, cliFactor)
			projRev = projRev / float64(daysInMonth) * float64(remaining)
			projCli = projCli / float64(daysInMonth) * float64(remaining)
			row.Revenue += projRev
			row.Clients += projCli
			row.RevenuePrivate += projRev * pPriv
			row.RevenueGroup += projRev * (1 - pPriv)
			row.ClientsPrivate += projCli * pPriv
			row.ClientsGroup += projCli * (1 - pPriv)

		default:
			row.Kind = ForecastProjected
			projRev, projCli, pPriv := monthProjection(historical, month, nBoats, revFactor, cliFactor)
			row.Revenue = projRev
			row.Clients = projCli
			row.RevenuePrivate = projRev * pPriv
			row.RevenueGroup = projRev * (1 - pPriv)
			row.ClientsPrivate = projCli * pPriv
			row.ClientsGroup = projCli * (1 - pPriv)
		}

		row.Revenue = round2(row.Revenue)
		row.Clients = round2(row.Clients)
		row.RevenuePrivate = round2(row.RevenuePrivate)
		row.RevenueGroup = round2(row.RevenueGroup)
		row.ClientsPrivate = round2(row.ClientsPrivate)
		row.ClientsGroup = round2(row.ClientsGroup)
		res.Months = append(res.Months, row)

		for _, a := range areas {
			res.AreaBoats = append(res.AreaBoats, ForecastAreaBoats{Month: month, Area: a, Boats: boats[a][month]})
		}
	}
	sort.Slice(res.AreaBoats, func(i, j int) bool {
		if res.AreaBoats[i].Month != res.AreaBoats[j].Month {
			return res.AreaBoats[i].Month < res.AreaBoats[j].Month
		}
		return res.AreaBoats[i].Area < res.AreaBoats[j].Area
	})
	return res
}

// monthProjection derives the full-month baseline for one month from the
// historical Detail rows, scaled by the adjustment factors. A month with no
// estimated boats projects zero. pPriv is the historical private share of
// revenue, defaulting to an even split.
func monthProjection(historical []dataset.TripRecord, month, nBoats int, revFactor, cliFactor float64) (rev, cli, pPriv float64) {
	pPriv = 0.5
	if nBoats == 0 {
		return 0, 0, pPriv
	}
	revPerYear := map[int]float64{}
	cliPerYear := map[int]float64{}
	var totRev, privRev float64
	for _, r := range historical {
		if r.Kind != dataset.RowDetail || r.Month() != month {
			continue
		}
		if r.Revenue != nil {
			revPerYear[r.Year] += *r.Revenue
			totRev += *r.Revenue
			if r.ClientSegment == dataset.SegmentPrivate {
				privRev += *r.Revenue
			}
		}
		if r.Clients != nil {
			cliPerYear[r.Year] += float64(*r.Clients)
		}
	}
	revMean, _ := yearlyMean(revPerYear)
	cliMean, _ := yearlyMean(cliPerYear)
	if totRev > 0 {
		pPriv = privRev / totRev
	}
	return revMean * revFactor, cliMean * cliFactor, pPriv
}

// Forecast handles the projection view.
func Forecast(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req forecastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		rows, err := store.Snapshot()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDatasetUnavailable+": "+err.Error())
			return
		}
		if len(rows) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		api.RespondWithPayload(w, true, "", ComputeForecast(rows, req, time.Now()))
	}
}
