package dash

import (
	"net/http"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// KPIResult carries the four headline metrics. Efficiency and mean clients
// are nil when their denominators are empty.
type KPIResult struct {
	TotalRevenue float64  `json:"total_revenue"`
	TourCount    int      `json:"tour_count"`
	MeanClients  *float64 `json:"mean_clients"`
	Efficiency   *float64 `json:"efficiency"`
	Context      string   `json:"context,omitempty"`
}

// ComputeKPI aggregates the Total rows of the filtered dataset: revenue sum,
// tour count, mean clients per tour, and euro earned per litre of fuel.
func ComputeKPI(rows []dataset.TripRecord, ctx dataset.FilterContext) KPIResult {
	tot := dataset.OfKind(rows, dataset.RowTotal)
	res := KPIResult{
		TotalRevenue: dataset.SumRevenue(tot),
		TourCount:    len(tot),
		Context:      ctx.ContextLabel(),
	}
	if mean, ok := dataset.MeanClients(tot); ok {
		res.MeanClients = dataset.Float(round1(mean))
	}
	fuel := dataset.SumFuel(tot)
	if fuel > 0 {
		res.Efficiency = dataset.Float(round1(res.TotalRevenue / fuel))
	}
	return res
}

// KPI handles the headline-metrics view.
func KPI(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, rows, ok := decodeView(w, r, store)
		if !ok {
			return
		}
		if len(rows) == 0 {
			api.RespondNoData(w, constants.ErrNoData)
			return
		}
		api.RespondWithPayload(w, true, "", ComputeKPI(rows, ctx))
	}
}
