package trips

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseCurrency coerces trip-log currency text ("150,00€") to a float.
// Unparseable text is missing, never zero, so it stays out of aggregates.
func ParseCurrency(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	v, _ := d.Float64()
	return &v
}

// ParseLedgerCost coerces expense-ledger cost text, which uses dots as
// thousands separators ("1.250,00 €").
func ParseLedgerCost(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	v, _ := d.Float64()
	return &v
}

// ParseClients coerces the client-count cell; decimals are truncated.
func ParseClients(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	n := int(d.IntPart())
	return &n
}

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"2006-01-02",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
}

// ParseDayFirstDate parses a sheet date cell with day-first convention,
// normalized to midnight UTC. ok is false for blank or unparseable cells.
func ParseDayFirstDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
