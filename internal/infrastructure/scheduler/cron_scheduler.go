package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cronTickerInterval is the interval at which the cron scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// maxBackfillDays caps how many daily report jobs one backfill request
// may enqueue
const maxBackfillDays = 92

// CronSchedulerConfig holds configuration for the nightly job scheduler
type CronSchedulerConfig struct {
	// Enabled indicates if the cron scheduler is enabled
	Enabled bool
	// CronHour is the hour (0-23) to run the nightly jobs
	CronHour int
	// CronMinute is the minute (0-59) to run the nightly jobs
	CronMinute int
	// DailyCronSchedule is the cron expression (parsed to extract hour/minute)
	DailyCronSchedule string
	// JobTimeout is the maximum time a single job can run
	JobTimeout time.Duration
	// MaxConcurrentJobs is the maximum number of concurrent jobs
	MaxConcurrentJobs int
	// RetryAttempts is the number of retry attempts for failed jobs
	RetryAttempts int
	// RetryDelay is the base delay between retries
	RetryDelay time.Duration
	// PrintRetentionDays is how long rendered PDFs are kept before the
	// cleanup job removes them
	PrintRetentionDays int
}

// DefaultCronSchedulerConfig returns default cron scheduler
// configuration. Nightly jobs run at 00:30, after the shop's midnight
// cutoff, so the report covers a complete day.
func DefaultCronSchedulerConfig() CronSchedulerConfig {
	return CronSchedulerConfig{
		Enabled:            true,
		CronHour:           0,
		CronMinute:         30,
		DailyCronSchedule:  "30 0 * * *",
		JobTimeout:         30 * time.Minute,
		MaxConcurrentJobs:  3,
		RetryAttempts:      3,
		RetryDelay:         5 * time.Minute,
		PrintRetentionDays: 90,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute.
// Returns defaults (00:30) if parsing fails or expression is empty.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 0
	minute = 30

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 30); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 0); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 0, 30, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 0, 30, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// SchedulerJobRecord is the persisted trace of one background job run
type SchedulerJobRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	JobType     string     `gorm:"column:job_type;size:50;not null;index"`
	Status      string     `gorm:"column:status;size:20"`
	Error       string     `gorm:"column:error;type:text"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (SchedulerJobRecord) TableName() string {
	return "scheduler_jobs"
}

// SchedulerJobRepository handles persistence of scheduler job records
type SchedulerJobRepository struct {
	db *gorm.DB
}

// NewSchedulerJobRepository creates a new SchedulerJobRepository
func NewSchedulerJobRepository(db *gorm.DB) *SchedulerJobRepository {
	return &SchedulerJobRepository{db: db}
}

// RecordJobStart records the start of a job execution
func (r *SchedulerJobRepository) RecordJobStart(ctx context.Context, jobType string) (uuid.UUID, error) {
	now := time.Now()
	record := &SchedulerJobRecord{
		ID:        uuid.New(),
		JobType:   jobType,
		Status:    string(JobStatusRunning),
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordJobComplete records the completion of a job
func (r *SchedulerJobRepository) RecordJobComplete(ctx context.Context, recordID uuid.UUID, success bool, errMsg string) error {
	now := time.Now()
	status := string(JobStatusSuccess)
	if !success {
		status = string(JobStatusFailed)
	}
	return r.db.WithContext(ctx).
		Model(&SchedulerJobRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]any{
			"status":       status,
			"error":        errMsg,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// GetLastJobStatus gets the most recent run record for a job type
func (r *SchedulerJobRepository) GetLastJobStatus(ctx context.Context, jobType string) (*SchedulerJobRecord, error) {
	var record SchedulerJobRecord
	err := r.db.WithContext(ctx).
		Where("job_type = ?", jobType).
		Order("started_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// recordedExecutor wraps a JobExecutor and persists each run as a
// SchedulerJobRecord. Completion is written under a detached context so
// a timed-out job still lands its failed record.
type recordedExecutor struct {
	inner   JobExecutor
	jobRepo *SchedulerJobRepository
	logger  *zap.Logger
}

func (e *recordedExecutor) Execute(ctx context.Context, job *Job) error {
	var recordID uuid.UUID
	if e.jobRepo != nil {
		id, err := e.jobRepo.RecordJobStart(ctx, string(job.Type))
		if err != nil {
			e.logger.Warn("failed to record job start",
				zap.String("job_type", string(job.Type)),
				zap.Error(err),
			)
		} else {
			recordID = id
		}
	}

	execErr := e.inner.Execute(ctx, job)

	if e.jobRepo != nil && recordID != uuid.Nil {
		errMsg := ""
		if execErr != nil {
			errMsg = execErr.Error()
		}
		if err := e.jobRepo.RecordJobComplete(context.WithoutCancel(ctx), recordID, execErr == nil, errMsg); err != nil {
			e.logger.Warn("failed to record job completion",
				zap.String("job_type", string(job.Type)),
				zap.Error(err),
			)
		}
	}

	return execErr
}

// CronScheduler runs the nightly job batch: the previous day's sales
// report aggregation and print file cleanup. It checks once a minute
// whether the configured time has arrived and feeds jobs to a bounded
// worker pool.
type CronScheduler struct {
	config    CronSchedulerConfig
	jobRepo   *SchedulerJobRepository
	logger    *zap.Logger
	scheduler *Scheduler

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewCronScheduler creates a new cron-based job scheduler. jobRepo may
// be nil, in which case runs are not persisted.
func NewCronScheduler(
	config CronSchedulerConfig,
	executor JobExecutor,
	jobRepo *SchedulerJobRepository,
	logger *zap.Logger,
) *CronScheduler {
	schedulerConfig := SchedulerConfig{
		Enabled:           config.Enabled,
		MaxConcurrentJobs: config.MaxConcurrentJobs,
		JobTimeout:        config.JobTimeout,
		RetryAttempts:     config.RetryAttempts,
		RetryDelay:        config.RetryDelay,
	}
	recorded := &recordedExecutor{inner: executor, jobRepo: jobRepo, logger: logger}

	return &CronScheduler{
		config:    config,
		jobRepo:   jobRepo,
		logger:    logger,
		scheduler: NewScheduler(schedulerConfig, recorded, logger),
	}
}

// Start starts the cron scheduler
func (s *CronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("cron scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the cron scheduler
func (s *CronScheduler) Stop(ctx context.Context) error {
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
		if err := s.scheduler.Stop(ctx); err != nil {
			s.logger.Warn("error stopping job scheduler", zap.Error(err))
		}
		s.logger.Info("cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("cron scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *CronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runNightlyJobs(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if the cron should run at the given time
func (s *CronScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

// calculateNextRunTime calculates the next run time
func (s *CronScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())

	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runNightlyJobs submits the nightly batch: the previous day's sales
// report, print file cleanup and abandoned upload cleanup.
func (s *CronScheduler) runNightlyJobs(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	yesterday := now.AddDate(0, 0, -1)
	reportDate := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.Local)

	s.logger.Info("submitting nightly jobs", zap.Time("report_date", reportDate))

	if err := s.scheduler.Schedule(JobTypeDailySalesReport, reportDate); err != nil {
		s.logger.Error("failed to submit daily sales report job", zap.Error(err))
	}
	if err := s.scheduler.Schedule(JobTypePrintCleanup, time.Time{}); err != nil {
		s.logger.Error("failed to submit print cleanup job", zap.Error(err))
	}
	if err := s.scheduler.Schedule(JobTypeUploadCleanup, time.Time{}); err != nil {
		s.logger.Error("failed to submit upload cleanup job", zap.Error(err))
	}
}

// Schedule submits a job of the given type to the worker pool
func (s *CronScheduler) Schedule(jobType JobType, targetDate time.Time) error {
	return s.scheduler.Schedule(jobType, targetDate)
}

// TriggerManualRun triggers the nightly batch outside its schedule.
// Runs detached from the caller's context so an admin request that
// completes does not cancel the batch.
func (s *CronScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runNightlyJobs(context.Background())
	return nil
}

// TriggerReportBackfill submits one sales report job per day in the
// inclusive date range. Used to regenerate reports after data fixes.
func (s *CronScheduler) TriggerReportBackfill(ctx context.Context, startDate, endDate time.Time) (int, error) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return 0, ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.Local)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.Local)
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s is before start date %s", endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}
	if int(end.Sub(start).Hours()/24) >= maxBackfillDays {
		return 0, fmt.Errorf("backfill range exceeds %d days", maxBackfillDays)
	}

	submitted := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := s.scheduler.Schedule(JobTypeDailySalesReport, day); err != nil {
			return submitted, err
		}
		submitted++
	}

	return submitted, nil
}

// GetStatus returns the current status of the cron scheduler
func (s *CronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.config.Enabled,
		"is_running":  s.isRunning,
		"cron_hour":   s.config.CronHour,
		"cron_minute": s.config.CronMinute,
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
		"job_types":   AllJobTypes(),
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *CronScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *CronScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
