package persistence

import (
	"context"
	"github.com/roylee0704/gron"
	"sync"
	"time"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
	"vivafit/internal/structures"
)

// Scheduler periodically flushes the durable key-value store and owns its
// restore/persist lifecycle. The participant, if any, writes its state into
// the store before each flush.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	store       interfaces.DurableStoreInterface
	participant interfaces.FlushParticipantInterface
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Storage.SaveInterval
	if interval <= 0 {
		interval = structures.DefaultSaveInterval
	}

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	return s.store.Restore()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting key-value store...")
	err := s.flush()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) flush() error {
	start := time.Now()
	if s.participant != nil {
		s.participant.BeforeFlush(context.Background())
	}
	err := s.store.Flush()
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, store interfaces.DurableStoreInterface, participant interfaces.FlushParticipantInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		store:       store,
		participant: participant,
		metrics:     metrics,
	}
}
