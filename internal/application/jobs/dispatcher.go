// Package jobs routes background jobs from the scheduler to the
// application services that do the work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	inventoryapp "github.com/nepalmeatshop/backend/internal/application/inventory"
	printingapp "github.com/nepalmeatshop/backend/internal/application/printing"
	reportapp "github.com/nepalmeatshop/backend/internal/application/report"
	"github.com/nepalmeatshop/backend/internal/infrastructure/scheduler"
)

// ReportGenerator produces the persisted daily sales report
type ReportGenerator interface {
	GenerateDaily(ctx context.Context, date time.Time) (*reportapp.DailyReportResponse, error)
}

// StockSweeper re-checks stock levels against alert thresholds
type StockSweeper interface {
	SweepLowStock(ctx context.Context) (*inventoryapp.SweepResult, error)
}

// UploadCleaner removes image uploads that were never confirmed
type UploadCleaner interface {
	CleanupPendingUploads(ctx context.Context, olderThan time.Duration) (int, error)
}

// PrintCleaner removes old rendered PDFs and their job records
type PrintCleaner interface {
	CleanupOldJobs(ctx context.Context, retentionDays int) (*printingapp.CleanupResult, error)
}

// DispatcherConfig holds the retention knobs the cleanup jobs use
type DispatcherConfig struct {
	// PrintRetentionDays is how long rendered PDFs are kept
	PrintRetentionDays int
	// UploadMaxAge is how long a pending upload may sit unconfirmed
	UploadMaxAge time.Duration
}

// DefaultDispatcherConfig returns default dispatcher configuration
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		PrintRetentionDays: 90,
		UploadMaxAge:       24 * time.Hour,
	}
}

// Dispatcher implements scheduler.JobExecutor by switching on the job
// type and delegating to the owning application service.
type Dispatcher struct {
	config    DispatcherConfig
	reports   ReportGenerator
	stock     StockSweeper
	uploads   UploadCleaner
	printJobs PrintCleaner
	logger    *zap.Logger
}

// NewDispatcher creates a new job dispatcher
func NewDispatcher(
	config DispatcherConfig,
	reports ReportGenerator,
	stock StockSweeper,
	uploads UploadCleaner,
	printJobs PrintCleaner,
	logger *zap.Logger,
) *Dispatcher {
	if config.PrintRetentionDays <= 0 {
		config.PrintRetentionDays = 90
	}
	if config.UploadMaxAge <= 0 {
		config.UploadMaxAge = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		config:    config,
		reports:   reports,
		stock:     stock,
		uploads:   uploads,
		printJobs: printJobs,
		logger:    logger,
	}
}

// Execute implements scheduler.JobExecutor
func (d *Dispatcher) Execute(ctx context.Context, job *scheduler.Job) error {
	switch job.Type {
	case scheduler.JobTypeDailySalesReport:
		return d.generateDailyReport(ctx, job.TargetDate)
	case scheduler.JobTypeLowStockSweep:
		return d.sweepLowStock(ctx)
	case scheduler.JobTypePrintCleanup:
		return d.cleanupPrintJobs(ctx)
	case scheduler.JobTypeUploadCleanup:
		return d.cleanupUploads(ctx)
	default:
		return scheduler.ErrInvalidJobType
	}
}

func (d *Dispatcher) generateDailyReport(ctx context.Context, date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("daily sales report job has no target date")
	}

	report, err := d.reports.GenerateDaily(ctx, date)
	if err != nil {
		return fmt.Errorf("daily sales report for %s: %w", date.Format("2006-01-02"), err)
	}

	d.logger.Info("daily sales report generated",
		zap.String("report_date", date.Format("2006-01-02")),
		zap.Int("total_orders", report.TotalOrders),
	)
	return nil
}

func (d *Dispatcher) sweepLowStock(ctx context.Context) error {
	result, err := d.stock.SweepLowStock(ctx)
	if err != nil {
		return fmt.Errorf("low stock sweep: %w", err)
	}

	if result.Raised > 0 {
		d.logger.Info("stock sweep raised alerts",
			zap.Int("checked", result.Checked),
			zap.Int("raised", result.Raised),
		)
	}
	return nil
}

func (d *Dispatcher) cleanupPrintJobs(ctx context.Context) error {
	result, err := d.printJobs.CleanupOldJobs(ctx, d.config.PrintRetentionDays)
	if err != nil {
		return fmt.Errorf("print cleanup: %w", err)
	}

	d.logger.Info("print cleanup finished",
		zap.Int("files_removed", result.FilesRemoved),
		zap.Int64("records_removed", result.RecordsRemoved),
	)
	return nil
}

func (d *Dispatcher) cleanupUploads(ctx context.Context) error {
	removed, err := d.uploads.CleanupPendingUploads(ctx, d.config.UploadMaxAge)
	if err != nil {
		return fmt.Errorf("upload cleanup: %w", err)
	}

	if removed > 0 {
		d.logger.Info("removed abandoned uploads", zap.Int("count", removed))
	}
	return nil
}

var _ scheduler.JobExecutor = (*Dispatcher)(nil)
