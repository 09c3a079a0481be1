package config

const (
	DefaultTimeZone   = "Europe/Rome"
	WeatherTimeZone   = "Europe/Berlin"
	DefaultWeatherURL = "https://archive-api.open-meteo.com/v1/archive"

	// Fleet-representative coordinate (Sirmione harbour).
	FleetLatitude  = 45.492
	FleetLongitude = 10.608

	// Adverse-weather day thresholds.
	RainThresholdMM  = 3.0
	WindThresholdKMH = 40.0

	// Trip workbook layout: two header rows, column window B..I.
	SheetHeaderRows = 2
	SheetFirstCol   = 1
	SheetLastCol    = 8

	DefaultTripGlob = "crmboats_taxi*"

	// Scheduled Reload Constants
	DefaultReloadSchedule  = "0 5 * * *" // nightly, after the crews close the day logs
	DefaultWeatherSchedule = "30 5 * * *"
)

// LowSeasonMonths are the months crewed as low season; every other month is
// high season for the forecast fleet estimate.
var LowSeasonMonths = map[int]bool{1: true, 2: true, 11: true, 12: true}
