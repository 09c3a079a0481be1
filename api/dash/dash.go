package dash

import (
	"net/http"

	"GardaBoatsSaas/internal/dataset"
	"GardaBoatsSaas/internal/logger"
)

// StartDashService runs the analytical views HTTP server.
func StartDashService(store *dataset.Store) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dash/kpi", KPI(store))
	mux.HandleFunc("/dash/performance", Performance(store))
	mux.HandleFunc("/dash/popularity", Popularity(store))
	mux.HandleFunc("/dash/seasonality", Seasonality(store))
	mux.HandleFunc("/dash/weather-impact", WeatherImpact(store))
	mux.HandleFunc("/dash/forecast", Forecast(store))
	mux.HandleFunc("/dash/simulator", Simulator(store))
	mux.HandleFunc("/dash/alerts", Alerts(store))
	mux.HandleFunc("/dash/expenses", Expenses(store))
	mux.HandleFunc("/dash/report", Report(store))

	err := http.ListenAndServe(":4143", mux)
	if err != nil {
		logger.Audit("[DASH] server error: " + err.Error())
	}
}
