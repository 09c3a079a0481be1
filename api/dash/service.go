package dash

import (
	"GardaBoatsSaas/internal/dataset"
	"GardaBoatsSaas/internal/logger"
)

// DashService exposes the analytical views over HTTP.
type DashService struct {
	name  string
	store *dataset.Store
}

func NewDashService(store *dataset.Store) *DashService {
	return &DashService{name: "dash", store: store}
}

func (s *DashService) Name() string { return s.name }

func (s *DashService) Start() error {
	go StartDashService(s.store)
	logger.Audit("[DASH] Service started on :4143")
	return nil
}

func (s *DashService) Stop() error {
	logger.Audit("[DASH] Service stopped")
	return nil
}
