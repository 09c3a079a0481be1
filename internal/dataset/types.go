package dataset

import (
	"time"
)

// Row kinds: a Detail row is one booking, a Total row is the staff-entered
// daily rollup for one boat. The employee column is the only discriminator.
const (
	RowDetail = "Dettaglio"
	RowTotal  = "Totale"
)

// Day types: Alti = high-demand (Saturday/Sunday), Bassi = weekday.
const (
	DayHigh = "Alti"
	DayLow  = "Bassi"
)

// Client segments, only meaningful on Detail rows with a client count.
const (
	SegmentPrivate = "Privati"
	SegmentGroup   = "Gruppo"
)

// TripRecord is one normalized trip-log row. Missing numerics are nil,
// never zero, so they stay out of aggregates.
type TripRecord struct {
	Date       time.Time `json:"date"`
	Route      string    `json:"route,omitempty"`
	TourType   string    `json:"tour_type"`
	Clients    *int      `json:"clients"`
	BoatRaw    string    `json:"boat_raw"`
	Boat       string    `json:"boat"`
	Employee   string    `json:"employee"`
	Revenue    *float64  `json:"revenue"`
	Fuel       *float64  `json:"fuel"`
	SheetLabel string    `json:"sheet_label"`
	SourceFile string    `json:"source_file"`

	Kind          string   `json:"kind"`
	Year          int      `json:"year"`
	DayType       string   `json:"day_type"`
	ClientSegment string   `json:"client_segment,omitempty"`
	Area          string   `json:"area"`
	BadWeather    *bool    `json:"bad_weather"`
	Precipitation *float64 `json:"precipitation_sum,omitempty"`
	WindMax       *float64 `json:"windspeed_max,omitempty"`
}

// ExpenseRecord is one row of the cost ledger.
type ExpenseRecord struct {
	Date          time.Time `json:"date"`
	Cost          *float64  `json:"cost"`
	Type          string    `json:"expense_type"`
	Supplier      string    `json:"supplier"`
	Category      string    `json:"category"`
	Destination   string    `json:"destination"`
	PaymentMethod string    `json:"payment_method"`
	MacroCategory string    `json:"macro_category"`
}

// Month returns the calendar month of the record date.
func (r TripRecord) Month() int { return int(r.Date.Month()) }

// ISOWeek returns the ISO week number of the record date.
func (r TripRecord) ISOWeek() int {
	_, week := r.Date.ISOWeek()
	return week
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func Bool(v bool) *bool { return &v }

// SumRevenue sums the non-missing revenue of rows.
func SumRevenue(rows []TripRecord) float64 {
	var total float64
	for _, r := range rows {
		if r.Revenue != nil {
			total += *r.Revenue
		}
	}
	return total
}

// SumFuel sums the non-missing fuel cost of rows.
func SumFuel(rows []TripRecord) float64 {
	var total float64
	for _, r := range rows {
		if r.Fuel != nil {
			total += *r.Fuel
		}
	}
	return total
}

// SumClients sums the non-missing client counts of rows.
func SumClients(rows []TripRecord) float64 {
	var total float64
	for _, r := range rows {
		if r.Clients != nil {
			total += float64(*r.Clients)
		}
	}
	return total
}

// MeanClients averages the non-missing client counts; ok is false when no
// row carries a count.
func MeanClients(rows []TripRecord) (float64, bool) {
	var total float64
	var n int
	for _, r := range rows {
		if r.Clients != nil {
			total += float64(*r.Clients)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

// OfKind returns the rows of the given row kind.
func OfKind(rows []TripRecord, kind string) []TripRecord {
	out := make([]TripRecord, 0, len(rows))
	for _, r := range rows {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Years returns the sorted distinct years present in rows.
func Years(rows []TripRecord) []int {
	seen := map[int]bool{}
	for _, r := range rows {
		seen[r.Year] = true
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sortInts(out)
	return out
}

func sortInts(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

// DistinctBoats returns the sorted distinct canonical boat names.
func DistinctBoats(rows []TripRecord) []string {
	return distinctString(rows, func(r TripRecord) string { return r.Boat })
}

// DistinctAreas returns the sorted distinct area labels.
func DistinctAreas(rows []TripRecord) []string {
	return distinctString(rows, func(r TripRecord) string { return r.Area })
}

func distinctString(rows []TripRecord, key func(TripRecord) string) []string {
	seen := map[string]bool{}
	for _, r := range rows {
		if k := key(r); k != "" {
			seen[k] = true
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
