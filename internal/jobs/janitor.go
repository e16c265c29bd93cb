package jobs

import (
	"fmt"
	"sync"
	"time"

	"go-pos-ledger/internal/logger"

	"github.com/robfig/cron/v3"
)

// DraftPurger drops payment drafts that have been idle too long.
type DraftPurger interface {
	PurgeExpired(ttl time.Duration) (int, error)
}

// StagingJanitor periodically clears abandoned payment drafts.
type StagingJanitor struct {
	cronScheduler *cron.Cron
	purger        DraftPurger
	schedule      string
	ttl           time.Duration
	jobID         cron.EntryID

	mu      sync.Mutex
	running bool
}

// NewStagingJanitor creates a janitor. schedule accepts the standard five
// field cron format as well as descriptors such as "@every 15m".
func NewStagingJanitor(purger DraftPurger, schedule string, ttl time.Duration) *StagingJanitor {
	return &StagingJanitor{
		cronScheduler: cron.New(),
		purger:        purger,
		schedule:      schedule,
		ttl:           ttl,
	}
}

// Start registers the purge job and starts the scheduler.
func (j *StagingJanitor) Start() error {
	var err error
	j.jobID, err = j.cronScheduler.AddFunc(j.schedule, func() {
		j.Run()
	})
	if err != nil {
		return fmt.Errorf("error scheduling staging cleanup: %w", err)
	}

	j.cronScheduler.Start()

	log := logger.WithComponent("jobs")
	log.Info().Str("schedule", j.schedule).Dur("ttl", j.ttl).Msg("staging janitor started")
	return nil
}

// Stop terminates the scheduler and waits for a running purge to finish.
func (j *StagingJanitor) Stop() {
	if j.cronScheduler != nil {
		<-j.cronScheduler.Stop().Done()
		log := logger.WithComponent("jobs")
		log.Info().Msg("staging janitor stopped")
	}
}

// Run purges once. Overlapping runs are skipped.
func (j *StagingJanitor) Run() int {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return 0
	}
	j.running = true
	j.mu.Unlock()
	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	log := logger.WithComponent("jobs")
	removed, err := j.purger.PurgeExpired(j.ttl)
	if err != nil {
		log.Error().Err(err).Msg("staging cleanup failed")
		return 0
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("expired payment drafts purged")
	}
	return removed
}
