package dash

import (
	"net/http"
	"sort"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// PopularityCount is one tour type's demand inside its bucket.
type PopularityCount struct {
	TourType string `json:"tour_type"`
	Boat     string `json:"boat,omitempty"`
	DayType  string `json:"day_type,omitempty"`
	Segment  string `json:"client_segment,omitempty"`
	Period   string `json:"period,omitempty"`
	Count    int    `json:"count"`
}

// PopularityDelta is one tour type's demand change between the two compared
// periods, normalized by the number of active boats in each period.
type PopularityDelta struct {
	TourType   string   `json:"tour_type"`
	FirstNorm  float64  `json:"first_norm"`
	SecondNorm float64  `json:"second_norm"`
	DeltaNorm  float64  `json:"delta_norm"`
	DeltaPct   *float64 `json:"delta_pct"`
}

// PopularityResult lists the five most and least requested tour types, plus
// the normalized period deltas in comparison mode.
type PopularityResult struct {
	Context   string            `json:"context,omitempty"`
	Top       []PopularityCount `json:"top"`
	Worst     []PopularityCount `json:"worst"`
	Increases []PopularityDelta `json:"increases,omitempty"`
	Decreases []PopularityDelta `json:"decreases,omitempty"`
}

// popularityRows picks the row kind the demand counts run on: Detail when a
// client-segment selector is active (segments only exist there), Total
// otherwise so bookings are not double counted.
func popularityRows(rows []dataset.TripRecord, ctx dataset.FilterContext) []dataset.TripRecord {
	switch ctx.ClientSegment {
	case dataset.SegmentPrivate, dataset.SegmentGroup, dataset.CompareSegments:
		return dataset.OfKind(rows, dataset.RowDetail)
	}
	return dataset.OfKind(rows, dataset.RowTotal)
}

// ComputePopularity counts tour occurrences bucketed by the active
// comparison dimensions and keeps the top five per bucket.
func ComputePopularity(rows []dataset.TripRecord, ctx dataset.FilterContext) PopularityResult {
	work := popularityRows(rows, ctx)
	byPeriod := ctx.IsComparison()
	bySegment := ctx.ClientSegment == dataset.CompareSegments
	byDay := !bySegment && ctx.DayType == dataset.CompareDayTypes
	areaSelected := ctx.Area != "" && ctx.Area != "Tutte"
	boatFree := ctx.Boat == "" || ctx.Boat == "Tutte"
	byBoat := areaSelected && boatFree && len(dataset.DistinctBoats(work)) > 1

	counts := map[PopularityCount]int{}
	for _, r := range work {
		k := PopularityCount{TourType: r.TourType}
		if byBoat {
			k.Boat = r.Boat
		}
		if bySegment {
			k.Segment = r.ClientSegment
		}
		if byDay {
			k.DayType = r.DayType
		}
		if byPeriod {
			k.Period = ctx.PeriodLabel(r)
		}
		counts[k]++
	}

	all := make([]PopularityCount, 0, len(counts))
	for k, n := range counts {
		k.Count = n
		all = append(all, k)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].TourType < all[j].TourType
	})

	// Top 5 inside each bucket (boat, segment, day type, period combination).
	type bucket struct{ boat, segment, day, period string }
	taken := map[bucket]int{}
	var top []PopularityCount
	for _, c := range all {
		b := bucket{boat: c.Boat, segment: c.Segment, day: c.DayType, period: c.Period}
		if taken[b] >= 5 {
			continue
		}
		taken[b]++
		top = append(top, c)
	}

	res := PopularityResult{
		Context: ctx.ContextLabel(),
		Top:     top,
		Worst:   worstTours(work),
	}
	if byPeriod {
		res.Increases, res.Decreases = normalizedDeltas(work, ctx)
	}
	return res
}

// worstTours returns the five least requested tour types with at least one
// occurrence in the current context.
func worstTours(rows []dataset.TripRecord) []PopularityCount {
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.TourType]++
	}
	out := make([]PopularityCount, 0, len(counts))
	for t, n := range counts {
		if n > 0 {
			out = append(out, PopularityCount{TourType: t, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].TourType < out[j].TourType
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// normalizedDeltas computes the per-tour demand change between the two
// periods, dividing each period's counts by its number of active boats so a
// fleet change does not read as a demand change.
func normalizedDeltas(rows []dataset.TripRecord, ctx dataset.FilterContext) (inc, dec []PopularityDelta) {
	first, second := ctx.ComparisonLabels()

	type tp struct{ tour, period string }
	counts := map[tp]int{}
	boats := map[string]map[string]bool{first: {}, second: {}}
	for _, r := range rows {
		p := ctx.PeriodLabel(r)
		if p != first && p != second {
			continue
		}
		counts[tp{tour: r.TourType, period: p}]++
		if r.Boat != "" {
			boats[p][r.Boat] = true
		}
	}
	norm := func(tour, period string) float64 {
		n := len(boats[period])
		if n == 0 {
			return 0
		}
		return float64(counts[tp{tour: tour, period: period}]) / float64(n)
	}

	tours := map[string]bool{}
	for k := range counts {
		tours[k.tour] = true
	}
	deltas := make([]PopularityDelta, 0, len(tours))
	for tour := range tours {
		d := PopularityDelta{
			TourType:   tour,
			FirstNorm:  round2(norm(tour, first)),
			SecondNorm: round2(norm(tour, second)),
		}
		d.DeltaNorm = round2(d.SecondNorm - d.FirstNorm)
		if d.FirstNorm > 0 {
			d.DeltaPct = dataset.Float(round1(100 * d.DeltaNorm / d.FirstNorm))
		}
		deltas = append(deltas, d)
	}

	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].DeltaNorm != deltas[j].DeltaNorm {
			return deltas[i].DeltaNorm > deltas[j].DeltaNorm
		}
		return deltas[i].TourType < deltas[j].TourType
	})
	inc = append(inc, deltas...)
	if len(inc) > 5 {
		inc = inc[:5]
	}
	dec = make([]PopularityDelta, len(deltas))
	copy(dec, deltas)
	sort.Slice(dec, func(i, j int) bool {
		if dec[i].DeltaNorm != dec[j].DeltaNorm {
			return dec[i].DeltaNorm < dec[j].DeltaNorm
		}
		return dec[i].TourType < dec[j].TourType
	})
	if len(dec) > 5 {
		dec = dec[:5]
	}
	return inc, dec
}

// Popularity handles the tour-demand view.
func Popularity(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, rows, ok := decodeView(w, r, store)
		if !ok {
			return
		}
		if len(rows) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		api.RespondWithPayload(w, true, "", ComputePopularity(rows, ctx))
	}
}
