package trips

import (
	"context"
	"fmt"
	"os"
	"time"

	"GardaBoatsSaas/internal/dataset"
	"GardaBoatsSaas/internal/logger"
	"GardaBoatsSaas/internal/weather"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config carries the ingest wiring for the trips service.
type Config struct {
	DataDir      string
	ExpensesFile string
	Store        *dataset.Store
	Weather      *weather.Client
	Pool         *pgxpool.Pool
}

// NewLoader builds the full ingest pass: trip workbooks from the data
// directory, weather enrichment over the observed date range, and the
// expense ledger when the file exists.
func NewLoader(dataDir, expensesFile string, client *weather.Client) dataset.Loader {
	return func() (dataset.LoadResult, error) {
		now := time.Now()
		trips, _, warnings, err := LoadDirectory(dataDir, now)
		if err != nil {
			return dataset.LoadResult{}, err
		}

		if len(trips) > 0 && client != nil {
			start, end := trips[0].Date, trips[0].Date
			for _, r := range trips {
				if r.Date.Before(start) {
					start = r.Date
				}
				if r.Date.After(end) {
					end = r.Date
				}
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			days, wx := client.FetchRange(ctx, start, end)
			cancel()
			warnings = append(warnings, wx...)
			trips = weather.Enrich(trips, days)
		}

		res := dataset.LoadResult{Trips: trips, Warnings: warnings}
		if expensesFile != "" {
			data, err := os.ReadFile(expensesFile)
			if err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("file spese non caricato: %v", err))
			} else {
				expenses, err := IngestExpenses(data, expensesFile)
				if err != nil {
					res.Warnings = append(res.Warnings, err.Error())
				} else {
					res.Expenses = expenses
				}
			}
		}
		return res, nil
	}
}

// TripsService owns spreadsheet ingestion and the dataset cache.
type TripsService struct {
	name string
	cfg  Config
}

func NewTripsService(cfg Config) *TripsService {
	return &TripsService{name: "trips", cfg: cfg}
}

func (s *TripsService) Name() string { return s.name }

func (s *TripsService) Start() error {
	go StartTripsService(s.cfg)
	logger.Audit("[TRIPS] Service started on :6143")
	return nil
}

func (s *TripsService) Stop() error {
	logger.Audit("[TRIPS] Service stopped")
	return nil
}
