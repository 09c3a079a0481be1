package dash

import (
	"math"
	"net/http"
	"sort"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// WeatherGroup compares revenue under good and adverse weather for one
// grouping value. Means are nil when the side has no tours.
type WeatherGroup struct {
	Group     string   `json:"group"`
	GoodMean  *float64 `json:"good_mean"`
	BadMean   *float64 `json:"bad_mean"`
	GoodTotal float64  `json:"good_total"`
	BadTotal  float64  `json:"bad_total"`
	GoodTours int      `json:"good_tours"`
	BadTours  int      `json:"bad_tours"`
	DeltaPct  *float64 `json:"delta_pct"`
}

// WeatherMonthShare is the share of adverse-weather tours in one month.
type WeatherMonthShare struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Share float64 `json:"share"`
}

// WeatherTest is Welch's t-test of good-vs-bad revenue for one group. The
// p-value uses the normal approximation of the t distribution.
type WeatherTest struct {
	Group       string  `json:"group"`
	T           float64 `json:"t"`
	P           float64 `json:"p"`
	Significant bool    `json:"significant"`
}

// WeatherImpactResult is the adverse-weather revenue analysis.
type WeatherImpactResult struct {
	Context      string              `json:"context,omitempty"`
	GroupBy      string              `json:"group_by"`
	Groups       []WeatherGroup      `json:"groups"`
	MonthlyShare []WeatherMonthShare `json:"monthly_share"`
	Tests        []WeatherTest       `json:"tests,omitempty"`
}

// weatherGrouping picks the comparison dimension, mirroring the breakdown
// priority of the revenue views.
func weatherGrouping(ctx dataset.FilterContext) (string, func(dataset.TripRecord) string) {
	if ctx.ClientSegment == dataset.CompareSegments {
		return "client_segment", func(r dataset.TripRecord) string { return r.ClientSegment }
	}
	if ctx.DayType == dataset.CompareDayTypes {
		return "day_type", func(r dataset.TripRecord) string { return r.DayType }
	}
	if ctx.Area != "" && ctx.Area != "Tutte" {
		return "boat", func(r dataset.TripRecord) string { return r.Boat }
	}
	return "area", func(r dataset.TripRecord) string { return r.Area }
}

// ComputeWeatherImpact runs the good-vs-adverse revenue comparison on the
// rows carrying a weather flag. ok is false when no row has one.
func ComputeWeatherImpact(rows []dataset.TripRecord, ctx dataset.FilterContext) (WeatherImpactResult, bool) {
	var work []dataset.TripRecord
	switch ctx.ClientSegment {
	case dataset.SegmentPrivate, dataset.SegmentGroup, dataset.CompareSegments:
		work = dataset.OfKind(rows, dataset.RowDetail)
	default:
		work = dataset.OfKind(rows, dataset.RowTotal)
	}
	flagged := make([]dataset.TripRecord, 0, len(work))
	for _, r := range work {
		if r.BadWeather != nil {
			flagged = append(flagged, r)
		}
	}
	if len(flagged) == 0 {
		return WeatherImpactResult{}, false
	}

	groupBy, group := weatherGrouping(ctx)
	type side struct {
		total float64
		n     int
		vals  []float64
	}
	good := map[string]*side{}
	bad := map[string]*side{}
	pick := func(m map[string]*side, k string) *side {
		s, ok := m[k]
		if !ok {
			s = &side{}
			m[k] = s
		}
		return s
	}
	var order []string
	seen := map[string]bool{}
	for _, r := range flagged {
		k := group(r)
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		if r.Revenue == nil {
			continue
		}
		s := pick(good, k)
		if *r.BadWeather {
			s = pick(bad, k)
		}
		s.total += *r.Revenue
		s.n++
		s.vals = append(s.vals, *r.Revenue)
	}
	sort.Strings(order)

	res := WeatherImpactResult{
		Context: ctx.ContextLabel(),
		GroupBy: groupBy,
	}
	for _, k := range order {
		g := WeatherGroup{Group: k}
		if s := good[k]; s != nil && s.n > 0 {
			g.GoodMean = dataset.Float(round2(s.total / float64(s.n)))
			g.GoodTotal = s.total
			g.GoodTours = s.n
		}
		if s := bad[k]; s != nil && s.n > 0 {
			g.BadMean = dataset.Float(round2(s.total / float64(s.n)))
			g.BadTotal = s.total
			g.BadTours = s.n
		}
		if g.GoodMean != nil && g.BadMean != nil && *g.GoodMean > 0 {
			g.DeltaPct = dataset.Float(round1(100 * (*g.BadMean - *g.GoodMean) / *g.GoodMean))
		}
		res.Groups = append(res.Groups, g)

		gs, bs := good[k], bad[k]
		if gs != nil && bs != nil && len(gs.vals) > 1 && len(bs.vals) > 1 {
			t, p := welchTest(gs.vals, bs.vals)
			res.Tests = append(res.Tests, WeatherTest{
				Group:       k,
				T:           round2(t),
				P:           p,
				Significant: p < 0.05,
			})
		}
	}

	res.MonthlyShare = monthlyBadWeatherShare(flagged)
	return res, true
}

func monthlyBadWeatherShare(rows []dataset.TripRecord) []WeatherMonthShare {
	type ym struct{ year, month int }
	badDays := map[ym]int{}
	total := map[ym]int{}
	for _, r := range rows {
		k := ym{year: r.Year, month: r.Month()}
		total[k]++
		if r.BadWeather != nil && *r.BadWeather {
			badDays[k]++
		}
	}
	out := make([]WeatherMonthShare, 0, len(total))
	for k, n := range total {
		out = append(out, WeatherMonthShare{
			Year:  k.year,
			Month: k.month,
			Share: round2(float64(badDays[k]) / float64(n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// welchTest computes Welch's unequal-variance t statistic and a two-sided
// p-value via the normal approximation.
func welchTest(a, b []float64) (t, p float64) {
	meanA, varA := meanVar(a)
	meanB, varB := meanVar(b)
	se := math.Sqrt(varA/float64(len(a)) + varB/float64(len(b)))
	if se == 0 {
		return 0, 1
	}
	t = (meanA - meanB) / se
	p = math.Erfc(math.Abs(t) / math.Sqrt2)
	return t, p
}

func meanVar(v []float64) (mean, variance float64) {
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	for _, x := range v {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(v) - 1)
	return mean, variance
}

// WeatherImpact handles the adverse-weather view.
func WeatherImpact(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, rows, ok := decodeView(w, r, store)
		if !ok {
			return
		}
		res, have := ComputeWeatherImpact(rows, ctx)
		if !have {
			api.RespondNoData(w, "Nessun dato meteo disponibile per il periodo selezionato.")
			return
		}
		api.RespondWithPayload(w, true, "", res)
	}
}
