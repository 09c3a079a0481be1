package dash

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"time"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// Season presets selectable in the simulator.
var seasonMonths = map[string][]int{
	"bassa":     {1, 2, 3, 11, 12},
	"alta":      {4, 5, 9, 10},
	"altissima": {6, 7, 8},
	"8mesi":     {3, 4, 5, 6, 7, 8, 9, 10},
	"12mesi":    {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
}

const maxSimulatorBoats = 15

// simulatorRequest is a what-if scenario: a season window and the number of
// operating boats per area.
type simulatorRequest struct {
	dataset.FilterContext
	Season string         `json:"season"`
	Boats  map[string]int `json:"boats"`
}

// SimulatorArea is the projected contribution of one area.
type SimulatorArea struct {
	Area         string  `json:"area"`
	Boats        int     `json:"boats"`
	MaxBoatsSeen int     `json:"max_boats_seen"`
	ActiveDays   float64 `json:"active_days_per_boat"`
	MeanRevenue  float64 `json:"mean_revenue_per_boat_day"`
	MeanClients  float64 `json:"mean_clients_per_boat_day"`
	RevenueTrend float64 `json:"revenue_trend"`
	ClientsTrend float64 `json:"clients_trend"`
	ProjectedRev float64 `json:"projected_revenue"`
	ProjectedCli float64 `json:"projected_clients"`
}

// SimulatorResult is the trend-adjusted scenario estimate.
type SimulatorResult struct {
	Season       string          `json:"season"`
	TotalRevenue float64         `json:"total_revenue"`
	TotalClients float64         `json:"total_clients"`
	Areas        []SimulatorArea `json:"areas"`
}

// boatDay aggregates one boat's takings on one calendar day.
type boatDay struct {
	revenue float64
	clients float64
}

// yearGeometricTrend derives the yearly growth rate from the first and last
// per-year means. One observed year means a flat trend.
func yearGeometricTrend(perYearSum map[int]float64, perYearCount map[int]int) float64 {
	var years []int
	for y, n := range perYearCount {
		if n > 0 {
			years = append(years, y)
		}
	}
	if len(years) < 2 {
		return 1
	}
	sort.Ints(years)
	first := perYearSum[years[0]] / float64(perYearCount[years[0]])
	last := perYearSum[years[len(years)-1]] / float64(perYearCount[years[len(years)-1]])
	if first <= 0 {
		return 1
	}
	return math.Pow(last/first, 1/float64(len(years)-1))
}

// ComputeSimulator projects revenue and clients for the requested fleet
// sizes: historical per-boat-day means times active days times boats, scaled
// by the geometric yearly trend compounded to the current year.
func ComputeSimulator(rows []dataset.TripRecord, req simulatorRequest, now time.Time) SimulatorResult {
	months, ok := seasonMonths[req.Season]
	if !ok {
		months = seasonMonths["altissima"]
	}
	inSeason := map[int]bool{}
	for _, m := range months {
		inSeason[m] = true
	}

	detail := dataset.OfKind(rows, dataset.RowDetail)

	earliestYear := now.Year()
	for _, r := range detail {
		if r.Year < earliestYear {
			earliestYear = r.Year
		}
	}
	trendYears := now.Year() - earliestYear

	res := SimulatorResult{Season: req.Season}
	var areas []string
	for a := range req.Boats {
		areas = append(areas, a)
	}
	sort.Strings(areas)

	for _, area := range areas {
		nBoats := req.Boats[area]
		if nBoats < 1 {
			nBoats = 1
		}
		if nBoats > maxSimulatorBoats {
			nBoats = maxSimulatorBoats
		}
		sim := SimulatorArea{Area: area, Boats: nBoats, RevenueTrend: 1, ClientsTrend: 1}

		type dayKey struct {
			day  time.Time
			boat string
		}
		days := map[dayKey]*boatDay{}
		boatsByDay := map[time.Time]map[string]bool{}
		revYearSum := map[int]float64{}
		revYearN := map[int]int{}
		cliYearSum := map[int]float64{}
		cliYearN := map[int]int{}
		for _, r := range detail {
			if r.Area != area || !inSeason[r.Month()] {
				continue
			}
			day := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
			k := dayKey{day: day, boat: r.Boat}
			bd, seen := days[k]
			if !seen {
				bd = &boatDay{}
				days[k] = bd
			}
			if r.Revenue != nil {
				bd.revenue += *r.Revenue
				revYearSum[r.Year] += *r.Revenue
				revYearN[r.Year]++
			}
			if r.Clients != nil {
				bd.clients += float64(*r.Clients)
				cliYearSum[r.Year] += float64(*r.Clients)
				cliYearN[r.Year]++
			}
			if boatsByDay[day] == nil {
				boatsByDay[day] = map[string]bool{}
			}
			boatsByDay[day][r.Boat] = true
		}

		for _, boats := range boatsByDay {
			if len(boats) > sim.MaxBoatsSeen {
				sim.MaxBoatsSeen = len(boats)
			}
		}
		if len(days) == 0 || sim.MaxBoatsSeen == 0 {
			res.Areas = append(res.Areas, sim)
			continue
		}

		var revSum, cliSum float64
		for _, bd := range days {
			revSum += bd.revenue
			cliSum += bd.clients
		}
		n := float64(len(days))
		sim.MeanRevenue = round2(revSum / n)
		sim.MeanClients = round2(cliSum / n)
		sim.ActiveDays = round2(n / math.Max(1, float64(sim.MaxBoatsSeen)))
		sim.RevenueTrend = round2(yearGeometricTrend(revYearSum, revYearN))
		sim.ClientsTrend = round2(yearGeometricTrend(cliYearSum, cliYearN))

		sim.ProjectedRev = round2(sim.MeanRevenue * sim.ActiveDays * float64(nBoats) *
			math.Pow(sim.RevenueTrend, float64(trendYears)))
		sim.ProjectedCli = round2(sim.MeanClients * sim.ActiveDays * float64(nBoats) *
			math.Pow(sim.ClientsTrend, float64(trendYears)))

		res.TotalRevenue += sim.ProjectedRev
		res.TotalClients += sim.ProjectedCli
		res.Areas = append(res.Areas, sim)
	}
	res.TotalRevenue = round2(res.TotalRevenue)
	res.TotalClients = round2(res.TotalClients)
	return res
}

// Simulator handles the what-if view.
func Simulator(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req simulatorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if err := req.Validate(); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(req.Boats) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "boats per area required")
			return
		}
		base, err := store.Snapshot()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDatasetUnavailable+": "+err.Error())
			return
		}
		rows := dataset.Filter(base, req.FilterContext)
		if len(rows) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		api.RespondWithPayload(w, true, "", ComputeSimulator(rows, req, time.Now()))
	}
}
