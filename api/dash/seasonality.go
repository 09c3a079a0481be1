package dash

import (
	"net/http"
	"sort"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// SeasonPoint is one (year, month) revenue sum, optionally split by the
// active comparison dimension.
type SeasonPoint struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Group   string  `json:"group,omitempty"`
	Revenue float64 `json:"revenue"`
}

// SeasonMean is the historical mean of the monthly sums across years.
type SeasonMean struct {
	Month       int     `json:"month"`
	Group       string  `json:"group,omitempty"`
	MeanRevenue float64 `json:"mean_revenue"`
}

// SeasonalityResult is the month-by-month trend with its historical baseline.
type SeasonalityResult struct {
	Context        string        `json:"context,omitempty"`
	FirstYear      int           `json:"first_year"`
	LastYear       int           `json:"last_year"`
	Points         []SeasonPoint `json:"points"`
	HistoricalMean []SeasonMean  `json:"historical_mean"`
}

// seasonGroup picks the extra trend dimension: client segments win over day
// types when both comparisons are active.
func seasonGroup(ctx dataset.FilterContext) func(dataset.TripRecord) string {
	if ctx.ClientSegment == dataset.CompareSegments {
		return func(r dataset.TripRecord) string { return r.ClientSegment }
	}
	if ctx.DayType == dataset.CompareDayTypes {
		return func(r dataset.TripRecord) string { return r.DayType }
	}
	return func(dataset.TripRecord) string { return "" }
}

// ComputeSeasonality sums revenue per (year, month) and derives the
// historical per-month mean. Detail rows drive the segment views, Total rows
// everything else.
func ComputeSeasonality(rows []dataset.TripRecord, ctx dataset.FilterContext) SeasonalityResult {
	var work []dataset.TripRecord
	switch ctx.ClientSegment {
	case dataset.SegmentPrivate, dataset.SegmentGroup, dataset.CompareSegments:
		work = dataset.OfKind(rows, dataset.RowDetail)
	default:
		work = dataset.OfKind(rows, dataset.RowTotal)
	}
	group := seasonGroup(ctx)

	type ym struct {
		year, month int
		group       string
	}
	sums := map[ym]float64{}
	for _, r := range work {
		if r.Revenue == nil {
			continue
		}
		sums[ym{year: r.Year, month: r.Month(), group: group(r)}] += *r.Revenue
	}

	points := make([]SeasonPoint, 0, len(sums))
	for k, v := range sums {
		points = append(points, SeasonPoint{Year: k.year, Month: k.month, Group: k.group, Revenue: v})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		if points[i].Month != points[j].Month {
			return points[i].Month < points[j].Month
		}
		return points[i].Group < points[j].Group
	})

	// Mean of the yearly sums, month by month.
	type mg struct {
		month int
		group string
	}
	totals := map[mg]float64{}
	years := map[mg]int{}
	for k, v := range sums {
		m := mg{month: k.month, group: k.group}
		totals[m] += v
		years[m]++
	}
	means := make([]SeasonMean, 0, len(totals))
	for m, v := range totals {
		means = append(means, SeasonMean{Month: m.month, Group: m.group, MeanRevenue: round2(v / float64(years[m]))})
	}
	sort.Slice(means, func(i, j int) bool {
		if means[i].Month != means[j].Month {
			return means[i].Month < means[j].Month
		}
		return means[i].Group < means[j].Group
	})

	res := SeasonalityResult{
		Context:        ctx.ContextLabel(),
		Points:         points,
		HistoricalMean: means,
	}
	if ys := dataset.Years(work); len(ys) > 0 {
		res.FirstYear = ys[0]
		res.LastYear = ys[len(ys)-1]
	}
	return res
}

// Seasonality handles the trend view.
func Seasonality(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, rows, ok := decodeView(w, r, store)
		if !ok {
			return
		}
		res := ComputeSeasonality(rows, ctx)
		if len(res.Points) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		api.RespondWithPayload(w, true, "", res)
	}
}
