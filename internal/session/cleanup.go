package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/logging"
)

const (
	DefaultIdleTimeout     = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// CleanupConfig holds configuration for the cleanup job.
type CleanupConfig struct {
	IdleTimeout     time.Duration // Sessions untouched this long are evicted
	CleanupInterval time.Duration // Interval between cleanup runs
}

// CleanupJob periodically evicts idle sessions from a Store.
type CleanupJob struct {
	store  Store
	config CleanupConfig
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewCleanupJob creates a new cleanup job.
func NewCleanupJob(store Store, config CleanupConfig, logger *zap.Logger) *CleanupJob {
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}

	return &CleanupJob{
		store:  store,
		config: config,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// Start begins the periodic cleanup in a goroutine.
func (j *CleanupJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return
	}

	j.running = true
	j.stopChan = make(chan struct{})
	j.done = make(chan struct{})

	go j.run(ctx, j.stopChan, j.done)

	j.logger.Info("session cleanup job started",
		zap.Duration("idle_timeout", j.config.IdleTimeout),
		zap.Duration("interval", j.config.CleanupInterval))
}

// Stop stops the cleanup job and waits for an in-flight run to finish.
func (j *CleanupJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stopChan)
	done := j.done
	j.running = false
	j.mu.Unlock()

	<-done
	j.logger.Info("session cleanup job stopped")
}

// RunOnce evicts idle sessions immediately.
func (j *CleanupJob) RunOnce(ctx context.Context) (int, error) {
	return j.store.EvictIdle(ctx, j.now().Add(-j.config.IdleTimeout))
}

// IsRunning returns whether the cleanup job is currently running.
func (j *CleanupJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func (j *CleanupJob) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			evicted, err := j.RunOnce(ctx)
			if err != nil {
				j.logger.Error("session cleanup failed", zap.Error(err))
			} else if evicted > 0 {
				j.logger.Info("evicted idle sessions", zap.Int("evicted", evicted))
			}
		}
	}
}
