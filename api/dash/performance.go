package dash

import (
	"net/http"
	"sort"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// Split dimensions for the revenue breakdown.
const (
	SplitArea = "area"
	SplitBoat = "boat"
	SplitTour = "tour_type"
)

// PerformanceGroup is one bar of the revenue breakdown: the split value plus
// the optional comparison buckets it belongs to.
type PerformanceGroup struct {
	Key         string   `json:"key"`
	DayType     string   `json:"day_type,omitempty"`
	Segment     string   `json:"client_segment,omitempty"`
	Period      string   `json:"period,omitempty"`
	Revenue     float64  `json:"revenue"`
	MeanRevenue *float64 `json:"mean_revenue"`
}

// PerformanceDelta compares one split value across the two periods.
type PerformanceDelta struct {
	Key      string   `json:"key"`
	First    float64  `json:"first"`
	Second   float64  `json:"second"`
	DeltaAbs float64  `json:"delta_abs"`
	DeltaPct *float64 `json:"delta_pct"`
}

// PerformanceResult is the full breakdown: every group, the top three by
// revenue, and the period deltas when exactly two periods are compared.
type PerformanceResult struct {
	SplitBy string             `json:"split_by"`
	Context string             `json:"context,omitempty"`
	Groups  []PerformanceGroup `json:"groups"`
	Top     []PerformanceGroup `json:"top"`
	Deltas  []PerformanceDelta `json:"deltas,omitempty"`
}

// chooseSplit picks the breakdown dimension: boats inside a selected area,
// otherwise areas, falling back to tour types when only one value exists.
func chooseSplit(rows []dataset.TripRecord, ctx dataset.FilterContext) string {
	areas := len(dataset.DistinctAreas(rows))
	boats := len(dataset.DistinctBoats(rows))
	if ctx.Area != "" && ctx.Area != "Tutte" {
		if boats > 1 {
			return SplitBoat
		}
		return SplitTour
	}
	if areas > 1 {
		return SplitArea
	}
	if boats > 1 {
		return SplitBoat
	}
	return SplitTour
}

func splitValue(r dataset.TripRecord, split string) string {
	switch split {
	case SplitArea:
		return r.Area
	case SplitBoat:
		return r.Boat
	default:
		return r.TourType
	}
}

type perfKey struct {
	split   string
	day     string
	segment string
	period  string
}

// ComputePerformance aggregates Detail-row revenue over the chosen split,
// bucketed further by day type, client segment, or period when the request
// asks for those comparisons.
func ComputePerformance(rows []dataset.TripRecord, ctx dataset.FilterContext) PerformanceResult {
	split := chooseSplit(rows, ctx)
	byDay := ctx.DayType == dataset.CompareDayTypes
	bySegment := ctx.ClientSegment == dataset.CompareSegments
	byPeriod := ctx.IsComparison()

	detail := dataset.OfKind(rows, dataset.RowDetail)
	sums := map[perfKey]float64{}
	counts := map[perfKey]int{}
	for _, r := range detail {
		k := perfKey{split: splitValue(r, split)}
		if byDay {
			k.day = r.DayType
		}
		if bySegment {
			k.segment = r.ClientSegment
		}
		if byPeriod {
			k.period = ctx.PeriodLabel(r)
		}
		if _, seen := sums[k]; !seen {
			sums[k] = 0
		}
		if r.Revenue != nil {
			sums[k] += *r.Revenue
			counts[k]++
		}
	}

	groups := make([]PerformanceGroup, 0, len(sums))
	for k, sum := range sums {
		g := PerformanceGroup{
			Key:     k.split,
			DayType: k.day,
			Segment: k.segment,
			Period:  k.period,
			Revenue: sum,
		}
		if n := counts[k]; n > 0 {
			g.MeanRevenue = dataset.Float(round2(sum / float64(n)))
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Key != groups[j].Key {
			return groups[i].Key < groups[j].Key
		}
		if groups[i].Period != groups[j].Period {
			return groups[i].Period < groups[j].Period
		}
		if groups[i].DayType != groups[j].DayType {
			return groups[i].DayType < groups[j].DayType
		}
		return groups[i].Segment < groups[j].Segment
	})

	top := make([]PerformanceGroup, len(groups))
	copy(top, groups)
	sort.Slice(top, func(i, j int) bool { return top[i].Revenue > top[j].Revenue })
	if len(top) > 3 {
		top = top[:3]
	}

	res := PerformanceResult{
		SplitBy: split,
		Context: ctx.ContextLabel(),
		Groups:  groups,
		Top:     top,
	}
	if byPeriod && !byDay && !bySegment {
		res.Deltas = periodDeltas(groups, ctx)
	}
	return res
}

// periodDeltas pivots the groups on the two period labels and computes the
// per-split difference. Percent change is nil when the first period has no
// positive revenue.
func periodDeltas(groups []PerformanceGroup, ctx dataset.FilterContext) []PerformanceDelta {
	first, second := ctx.ComparisonLabels()
	byKey := map[string]*PerformanceDelta{}
	var order []string
	for _, g := range groups {
		d, ok := byKey[g.Key]
		if !ok {
			d = &PerformanceDelta{Key: g.Key}
			byKey[g.Key] = d
			order = append(order, g.Key)
		}
		switch g.Period {
		case first:
			d.First = g.Revenue
		case second:
			d.Second = g.Revenue
		}
	}
	out := make([]PerformanceDelta, 0, len(order))
	for _, k := range order {
		d := byKey[k]
		d.DeltaAbs = d.Second - d.First
		if d.First > 0 {
			d.DeltaPct = dataset.Float(round1(100 * d.DeltaAbs / d.First))
		}
		out = append(out, *d)
	}
	return out
}

// Performance handles the revenue-breakdown view.
func Performance(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, rows, ok := decodeView(w, r, store)
		if !ok {
			return
		}
		if len(rows) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		api.RespondWithPayload(w, true, "", ComputePerformance(rows, ctx))
	}
}
