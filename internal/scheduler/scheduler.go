package scheduler

import (
	"context"
	"errors"
	"steamdash/internal/providers"
	"steamdash/internal/scheduler/interfaces"
	"steamdash/internal/services"
	storageInterfaces "steamdash/internal/storage/interfaces"
	"steamdash/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

const defaultRefreshInterval = 5 * time.Minute

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	service  services.DashboardServiceInterface
	settings storageInterfaces.SettingsStoreInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) interval() time.Duration {
	if s.config.Refresh.Interval > 0 {
		return s.config.Refresh.Interval
	}
	return defaultRefreshInterval
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.interval()), s.tick)
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Periodic refresh every %s", s.interval())
}

func (s *Scheduler) tick() {
	err := s.service.Refresh(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, services.ErrRefreshInProgress):
		s.logger.Debugf(providers.TypeFetch, "Skipping periodic refresh, previous cycle still loading")
	default:
		s.logger.Warnf(providers.TypeFetch, "Periodic refresh failed: %s", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.settings.Restore()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting settings to %s", s.config.Settings.FilePath)
	if err := s.settings.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting settings: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.DashboardServiceInterface, settings storageInterfaces.SettingsStoreInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		service:  service,
		settings: settings,
	}
}
