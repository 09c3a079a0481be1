package dash

import (
	"encoding/json"
	"net/http"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/dataset"
)

// viewRequest is the body every analytical view accepts.
type viewRequest struct {
	dataset.FilterContext
}

// decodeView parses and validates the request body, then returns the
// filtered snapshot. ok is false when a response has already been written.
func decodeView(w http.ResponseWriter, r *http.Request, store *dataset.Store) (dataset.FilterContext, []dataset.TripRecord, bool) {
	if r.Method != http.MethodPost {
		api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return dataset.FilterContext{}, nil, false
	}
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return dataset.FilterContext{}, nil, false
	}
	if err := req.Validate(); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return dataset.FilterContext{}, nil, false
	}
	base, err := store.Snapshot()
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDatasetUnavailable+": "+err.Error())
		return dataset.FilterContext{}, nil, false
	}
	rows := dataset.Filter(base, req.FilterContext)
	return req.FilterContext, rows, true
}

// round1 keeps one decimal, the precision the dashboard shows.
func round1(v float64) float64 {
	if v < 0 {
		return float64(int(v*10-0.5)) / 10
	}
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int(v*100-0.5)) / 100
	}
	return float64(int(v*100+0.5)) / 100
}
