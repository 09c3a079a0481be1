package trips

import (
	"strings"
	"time"

	"GardaBoatsSaas/internal/dataset"
)

// Operator shorthand used on Detail rows. Total rows are written out by the
// staff with the full boat name, so the abbreviation table never applies
// to them.
var abbrevToFull = map[string]string{
	"Bel": "Beluga",
	"Lib": "Libera",
	"Ghi": "Ghibli",
	"Mag": "Magia",
	"Kia": "Kiar di Luna",
	"Bec": "Become",
	"Ete": "Eternity",
	"Col": "Columbus",
	"Can": "Candido",
	"Vir": "Virgilio",
	"Riv": "Riva",
}

var fullNames = []string{
	"Beluga", "Libera", "Ghibli", "Magia", "Kiar di Luna", "Become",
	"Eternity", "L’Aurora", "L'Aurora", "Columbus", "Candido", "Virgilio", "Riva",
}

// areaOfBoat maps each canonical boat to its operating area. Unknown boats
// map to "" and the row is dropped downstream.
var areaOfBoat = map[string]string{
	"Beluga":       "Sirmione",
	"Libera":       "Sirmione",
	"Ghibli":       "Sirmione",
	"Magia":        "Sirmione",
	"Kiar di Luna": "Sirmione",
	"Become":       "Sirmione",
	"Eternity":     "Desenzano",
	"L’Aurora":     "Desenzano",
	"Columbus":     "BSD",
	"Candido":      "Exclusive",
	"Virgilio":     "Exclusive",
	"Riva":         "Riva",
}

// NormalizeBoat resolves a raw boat cell to its canonical name, or "" when
// it cannot be resolved. Resolution is conditional on the row kind: Detail
// rows go through the abbreviation table first, Total rows only match full
// names. The Aurora spelling (two apostrophe glyphs) is special-cased ahead
// of both paths.
func NormalizeBoat(raw, kind string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "‘", "'")
	lower := strings.ToLower(s)
	if lower == "l'aurora" {
		return "L’Aurora"
	}
	if kind == dataset.RowDetail {
		for abbr, full := range abbrevToFull {
			if lower == strings.ToLower(abbr) {
				return full
			}
		}
	}
	for _, full := range fullNames {
		if lower == strings.ToLower(full) {
			if strings.Contains(lower, "aurora") {
				return "L’Aurora"
			}
			return full
		}
	}
	return ""
}

// AreaOf returns the operating area of a canonical boat, or "".
func AreaOf(boat string) string {
	return areaOfBoat[boat]
}

// BoatsOfArea returns the canonical boats assigned to an area.
func BoatsOfArea(area string) []string {
	var out []string
	for boat, a := range areaOfBoat {
		if a == area {
			out = append(out, boat)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// DayTypeOf classifies Saturday/Sunday as high-demand days.
func DayTypeOf(date time.Time) string {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return dataset.DayHigh
	default:
		return dataset.DayLow
	}
}

// SegmentOf classifies the client segment. Only Detail rows with a client
// count get one; Total rows carry an aggregate count and stay unsegmented.
func SegmentOf(kind string, clients *int) string {
	if kind != dataset.RowDetail || clients == nil {
		return ""
	}
	if *clients <= 5 {
		return dataset.SegmentPrivate
	}
	return dataset.SegmentGroup
}

// rowKindOf decides Detail vs Total from the employee column, the only
// discriminator in the sheets.
func rowKindOf(employee string) string {
	if strings.TrimSpace(employee) != "" {
		return dataset.RowTotal
	}
	return dataset.RowDetail
}
