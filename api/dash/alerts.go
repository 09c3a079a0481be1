package dash

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// Alert rule identifiers, in evaluation order.
const (
	AlertEfficiency    = "efficiency"
	AlertTopPerformer  = "top_performer"
	AlertTrend         = "trend"
	AlertConcentration = "concentration"
	AlertSeasonal      = "seasonal_anomaly"
	AlertUtilization   = "fleet_utilization"
	AlertWeather       = "weather_sensitivity"
	AlertHighDays      = "high_day_booking"
)

// Alert is one automatic suggestion.
type Alert struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// AlertsResult lists every triggered alert in rule order.
type AlertsResult struct {
	Context string  `json:"context,omitempty"`
	Alerts  []Alert `json:"alerts"`
}

func monthKey(t time.Time) string { return t.Format("2006-01") }

// ComputeAlerts evaluates the eight operational rules against the filtered
// dataset. Rules run on Total rows except concentration, which spans all
// rows like the revenue it guards.
func ComputeAlerts(rows []dataset.TripRecord, ctx dataset.FilterContext) AlertsResult {
	tot := dataset.OfKind(rows, dataset.RowTotal)
	res := AlertsResult{Context: ctx.ContextLabel(), Alerts: []Alert{}}
	add := func(rule, format string, args ...interface{}) {
		res.Alerts = append(res.Alerts, Alert{Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	// 1. Monthly fuel efficiency per boat against a dynamic fleet threshold.
	type bm struct{ boat, month string }
	revByBM := map[bm]float64{}
	fuelByBM := map[bm]float64{}
	for _, r := range tot {
		k := bm{boat: r.Boat, month: monthKey(r.Date)}
		if r.Revenue != nil {
			revByBM[k] += *r.Revenue
		}
		if r.Fuel != nil {
			fuelByBM[k] += *r.Fuel
		}
	}
	effSum := map[string]float64{}
	effN := map[string]int{}
	for k, rev := range revByBM {
		if fuel := fuelByBM[k]; fuel > 0 {
			effSum[k.boat] += rev / fuel
			effN[k.boat]++
		}
	}
	boatEff := map[string]float64{}
	var boats []string
	var fleetEff float64
	for boat, sum := range effSum {
		boatEff[boat] = sum / float64(effN[boat])
		fleetEff += boatEff[boat]
		boats = append(boats, boat)
	}
	sort.Strings(boats)
	threshold := 80.0
	if len(boats) > 0 {
		threshold = fleetEff / float64(len(boats)) * 0.8
	}
	for _, boat := range boats {
		if boatEff[boat] < threshold {
			add(AlertEfficiency, "Barca %s con efficienza media mensile bassa: %.1f €/litro (sotto soglia dinamica %.1f €/litro)",
				boat, boatEff[boat], threshold)
		}
	}

	// 2. Top performer by total revenue.
	revByBoat := map[string]float64{}
	for _, r := range tot {
		if r.Revenue != nil {
			revByBoat[r.Boat] += *r.Revenue
		}
	}
	var topBoat string
	var topRev float64
	for boat, rev := range revByBoat {
		if topBoat == "" || rev > topRev || (rev == topRev && boat < topBoat) {
			topBoat, topRev = boat, rev
		}
	}
	if topBoat != "" {
		add(AlertTopPerformer, "Top performer: %s (%.0f€)", topBoat, topRev)
	}

	// 3. Per-boat revenue drop versus the previous calendar month.
	monthsSeen := map[string]bool{}
	for _, r := range tot {
		monthsSeen[monthKey(r.Date)] = true
	}
	if len(monthsSeen) >= 2 {
		var months []string
		for m := range monthsSeen {
			months = append(months, m)
		}
		sort.Strings(months)
		last, prev := months[len(months)-1], months[len(months)-2]
		lastRev := map[string]float64{}
		prevRev := map[string]float64{}
		for _, r := range tot {
			if r.Revenue == nil {
				continue
			}
			switch monthKey(r.Date) {
			case last:
				lastRev[r.Boat] += *r.Revenue
			case prev:
				prevRev[r.Boat] += *r.Revenue
			}
		}
		var dropped []string
		for boat, cur := range lastRev {
			if p, ok := prevRev[boat]; ok && cur < p*0.8 {
				dropped = append(dropped, boat)
			}
		}
		sort.Strings(dropped)
		for _, boat := range dropped {
			add(AlertTrend, "Trend in calo: %s ha avuto un incasso inferiore del 20%% rispetto al mese precedente.", boat)
		}
	}

	// 4. Revenue concentration on a single tour type.
	revByTour := map[string]float64{}
	var totalRev float64
	for _, r := range rows {
		if r.Revenue != nil {
			revByTour[r.TourType] += *r.Revenue
			totalRev += *r.Revenue
		}
	}
	var topTour string
	var topTourRev float64
	for tour, rev := range revByTour {
		if topTour == "" || rev > topTourRev || (rev == topTourRev && tour < topTour) {
			topTour, topTourRev = tour, rev
		}
	}
	if topTour != "" && totalRev > 0 && topTourRev/totalRev > 0.6 {
		add(AlertConcentration, "Attenzione: il tour %s rappresenta oltre il 60%% dell'incasso totale (scarsa diversificazione).", topTour)
	}

	// 5. Seasonal anomaly: a month-year 30% under the historical mean of
	// the same month.
	years := dataset.Years(tot)
	if len(years) >= 2 {
		type my struct {
			month int
			year  int
		}
		revByMY := map[my]float64{}
		for _, r := range tot {
			if r.Revenue != nil {
				revByMY[my{month: r.Month(), year: r.Year}] += *r.Revenue
			}
		}
		monthsPresent := map[int]bool{}
		for k := range revByMY {
			monthsPresent[k.month] = true
		}
		for month := 1; month <= 12; month++ {
			if !monthsPresent[month] {
				continue
			}
			for _, year := range years {
				cur := revByMY[my{month: month, year: year}]
				var past float64
				var n int
				for _, other := range years {
					if other == year {
						continue
					}
					if v, ok := revByMY[my{month: month, year: other}]; ok {
						past += v
						n++
					}
				}
				if n >= 1 {
					mean := past / float64(n)
					if mean > 0 && cur < mean*0.7 {
						add(AlertSeasonal, "%s %d sotto media: incasso inferiore del 30%% rispetto alla media dello stesso mese negli anni precedenti.",
							time.Month(month).String(), year)
					}
				}
			}
		}
	}

	// 6. Fleet utilization below 70% of the fleet mean.
	daysByBoat := map[string]map[string]bool{}
	for _, r := range tot {
		if daysByBoat[r.Boat] == nil {
			daysByBoat[r.Boat] = map[string]bool{}
		}
		daysByBoat[r.Boat][r.Date.Format(constants.DateFormat)] = true
	}
	if len(daysByBoat) > 0 {
		var meanDays float64
		var fleet []string
		for boat, days := range daysByBoat {
			meanDays += float64(len(days))
			fleet = append(fleet, boat)
		}
		meanDays /= float64(len(daysByBoat))
		sort.Strings(fleet)
		for _, boat := range fleet {
			if days := len(daysByBoat[boat]); float64(days) < 0.7*meanDays {
				add(AlertUtilization, "Barca %s sottoutilizzata: attiva solo %d giorni rispetto a una media di %.0f giorni.",
					boat, days, meanDays)
			}
		}
	}

	// 7. Boats losing more than the fleet in adverse weather.
	type bw struct {
		boat string
		bad  bool
	}
	wxSum := map[bw]float64{}
	wxN := map[bw]int{}
	for _, r := range tot {
		if r.BadWeather == nil || r.Revenue == nil {
			continue
		}
		k := bw{boat: r.Boat, bad: *r.BadWeather}
		wxSum[k] += *r.Revenue
		wxN[k]++
	}
	fleetBoats := map[string]bool{}
	for k := range wxSum {
		fleetBoats[k.boat] = true
	}
	var allBoats []string
	for boat := range fleetBoats {
		allBoats = append(allBoats, boat)
	}
	sort.Strings(allBoats)
	deltas := map[string]float64{}
	var wxBoats []string
	for _, boat := range allBoats {
		goodK, badK := bw{boat: boat}, bw{boat: boat, bad: true}
		if wxN[goodK] == 0 || wxN[badK] == 0 {
			continue
		}
		goodMean := wxSum[goodK] / float64(wxN[goodK])
		badMean := wxSum[badK] / float64(wxN[badK])
		if goodMean == 0 {
			continue
		}
		deltas[boat] = (badMean - goodMean) / goodMean * 100
		wxBoats = append(wxBoats, boat)
	}
	if len(wxBoats) > 0 {
		var fleetDelta float64
		for _, boat := range wxBoats {
			fleetDelta += deltas[boat]
		}
		fleetDelta /= float64(len(wxBoats))
		for _, boat := range wxBoats {
			if deltas[boat] < fleetDelta-15 {
				add(AlertWeather, "%s subisce un calo di incasso col maltempo superiore alla media flotta (%.0f%% vs %.0f%%).",
					boat, deltas[boat], fleetDelta)
			}
		}
	}

	// 8. High-demand days underbooked relative to weekdays.
	var highRev, lowRev float64
	for _, r := range tot {
		if r.Revenue == nil {
			continue
		}
		switch r.DayType {
		case dataset.DayHigh:
			highRev += *r.Revenue
		case dataset.DayLow:
			lowRev += *r.Revenue
		}
	}
	if highRev < lowRev*0.8 {
		add(AlertHighDays, "Bassa prenotazione nei giorni ad alta domanda: incasso giorni alti < 80%% rispetto ai giorni bassi.")
	}

	return res
}

// Alerts handles the automatic-suggestions view.
func Alerts(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, rows, ok := decodeView(w, r, store)
		if !ok {
			return
		}
		if len(rows) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		api.RespondWithPayload(w, true, "", ComputeAlerts(rows, ctx))
	}
}
