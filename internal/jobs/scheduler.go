package jobs

import (
	"fmt"
	"log"
	"time"

	"GardaBoatsSaas/internal/config"
	"GardaBoatsSaas/internal/dataset"
	"GardaBoatsSaas/internal/logger"
	"GardaBoatsSaas/internal/serviceiface"

	"github.com/robfig/cron/v3"
)

// CronService owns the nightly dataset rebuild. The reload schedule drops
// and re-ingests everything; the weather schedule exists so a late archive
// publish still lands the same morning.
type CronService struct {
	config map[string]interface{}
	store  *dataset.Store
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, store *dataset.Store) serviceiface.Service {
	return &CronService{config: cfg, store: store}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) schedule(key, fallback string) string {
	if s.config != nil {
		if v, ok := s.config[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

func (s *CronService) Start() error {
	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		return fmt.Errorf("failed to load scheduler timezone: %w", err)
	}
	s.cron = cron.New(cron.WithLocation(loc))

	reload := func(trigger string) {
		s.store.Invalidate()
		if err := s.store.Reload(); err != nil {
			logger.Audit(fmt.Sprintf("[CRON] %s reload failed: %v", trigger, err))
			return
		}
		logger.Audit(fmt.Sprintf("[CRON] %s reload completed", trigger))
	}

	reloadSchedule := s.schedule("reload_schedule", config.DefaultReloadSchedule)
	if _, err := s.cron.AddFunc(reloadSchedule, func() { reload("nightly") }); err != nil {
		return fmt.Errorf("failed to schedule nightly reload: %w", err)
	}
	weatherSchedule := s.schedule("weather_schedule", config.DefaultWeatherSchedule)
	if _, err := s.cron.AddFunc(weatherSchedule, func() { reload("weather refresh") }); err != nil {
		return fmt.Errorf("failed to schedule weather refresh: %w", err)
	}

	s.cron.Start()
	logger.Audit("Cron service started, reload " + reloadSchedule + ", weather " + weatherSchedule)
	log.Println("Cron service started")
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	logger.Audit("Cron service stopped")
	return nil
}
