package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobSubmitter accepts background jobs for execution. Both Scheduler
// and CronScheduler satisfy it.
type JobSubmitter interface {
	Schedule(jobType JobType, targetDate time.Time) error
}

// LowStockSweeperConfig holds configuration for the periodic stock sweep
type LowStockSweeperConfig struct {
	// Enabled indicates if the sweeper is enabled
	Enabled bool
	// SweepInterval is how often stock levels are re-checked
	SweepInterval time.Duration
}

// DefaultLowStockSweeperConfig returns default sweeper configuration
func DefaultLowStockSweeperConfig() LowStockSweeperConfig {
	return LowStockSweeperConfig{
		Enabled:       true,
		SweepInterval: time.Hour,
	}
}

// LowStockSweeper periodically submits stock sweep jobs. The sweep
// catches products that drifted below their alert threshold outside
// the order flow: manual adjustments, CSV imports, waste write-offs.
type LowStockSweeper struct {
	config    LowStockSweeperConfig
	submitter JobSubmitter
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastSweepAt *time.Time
}

// NewLowStockSweeper creates a new low stock sweeper
func NewLowStockSweeper(config LowStockSweeperConfig, submitter JobSubmitter, logger *zap.Logger) *LowStockSweeper {
	return &LowStockSweeper{
		config:    config,
		submitter: submitter,
		logger:    logger,
	}
}

// Start starts the sweep loop. The first sweep runs immediately so
// alerts catch up after a restart.
func (s *LowStockSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("low stock sweeper started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
	)

	return nil
}

// Stop stops the sweep loop
func (s *LowStockSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("low stock sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop submits a sweep immediately and then on every tick
func (s *LowStockSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	s.sweep()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep submits one stock sweep job
func (s *LowStockSweeper) sweep() {
	now := time.Now()
	s.mu.Lock()
	s.lastSweepAt = &now
	s.mu.Unlock()

	if err := s.submitter.Schedule(JobTypeLowStockSweep, time.Time{}); err != nil {
		s.logger.Error("failed to submit stock sweep job", zap.Error(err))
	}
}

// TriggerManualSweep submits a sweep outside the schedule
func (s *LowStockSweeper) TriggerManualSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSweeperNotRunning
	}
	s.mu.Unlock()

	s.sweep()
	return nil
}

// GetLastSweepAt returns when the last sweep was submitted
func (s *LowStockSweeper) GetLastSweepAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSweepAt
}

// GetStatus returns the current status of the sweeper
func (s *LowStockSweeper) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":        s.config.Enabled,
		"is_running":     s.isRunning,
		"sweep_interval": s.config.SweepInterval.String(),
		"last_sweep_at":  s.lastSweepAt,
	}
}
