package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	inventoryapp "github.com/nepalmeatshop/backend/internal/application/inventory"
	printingapp "github.com/nepalmeatshop/backend/internal/application/printing"
	reportapp "github.com/nepalmeatshop/backend/internal/application/report"
	"github.com/nepalmeatshop/backend/internal/infrastructure/scheduler"
)

type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) GenerateDaily(ctx context.Context, date time.Time) (*reportapp.DailyReportResponse, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.DailyReportResponse), args.Error(1)
}

type MockStockSweeper struct {
	mock.Mock
}

func (m *MockStockSweeper) SweepLowStock(ctx context.Context) (*inventoryapp.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.SweepResult), args.Error(1)
}

type MockUploadCleaner struct {
	mock.Mock
}

func (m *MockUploadCleaner) CleanupPendingUploads(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

type MockPrintCleaner struct {
	mock.Mock
}

func (m *MockPrintCleaner) CleanupOldJobs(ctx context.Context, retentionDays int) (*printingapp.CleanupResult, error) {
	args := m.Called(ctx, retentionDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.CleanupResult), args.Error(1)
}

type dispatcherTestEnv struct {
	reports    *MockReportGenerator
	stock      *MockStockSweeper
	uploads    *MockUploadCleaner
	printJobs  *MockPrintCleaner
	dispatcher *Dispatcher
}

func newDispatcherTestEnv(cfg DispatcherConfig) *dispatcherTestEnv {
	env := &dispatcherTestEnv{
		reports:   new(MockReportGenerator),
		stock:     new(MockStockSweeper),
		uploads:   new(MockUploadCleaner),
		printJobs: new(MockPrintCleaner),
	}
	env.dispatcher = NewDispatcher(cfg, env.reports, env.stock, env.uploads, env.printJobs, zap.NewNop())
	return env
}

func TestDispatcher_DailySalesReport(t *testing.T) {
	env := newDispatcherTestEnv(DefaultDispatcherConfig())
	date := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local)

	env.reports.On("GenerateDaily", mock.Anything, date).
		Return(&reportapp.DailyReportResponse{ReportDate: date, TotalOrders: 14, Stored: true}, nil)

	job := scheduler.NewJob(scheduler.JobTypeDailySalesReport, date, 3)
	err := env.dispatcher.Execute(context.Background(), job)

	require.NoError(t, err)
	env.reports.AssertExpectations(t)
	env.stock.AssertNotCalled(t, "SweepLowStock", mock.Anything)
}

func TestDispatcher_DailySalesReport_MissingDate(t *testing.T) {
	env := newDispatcherTestEnv(DefaultDispatcherConfig())

	job := scheduler.NewJob(scheduler.JobTypeDailySalesReport, time.Time{}, 3)
	err := env.dispatcher.Execute(context.Background(), job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no target date")
	env.reports.AssertNotCalled(t, "GenerateDaily", mock.Anything, mock.Anything)
}

func TestDispatcher_DailySalesReport_GeneratorError(t *testing.T) {
	env := newDispatcherTestEnv(DefaultDispatcherConfig())
	date := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local)

	env.reports.On("GenerateDaily", mock.Anything, date).
		Return(nil, errors.New("database unavailable"))

	job := scheduler.NewJob(scheduler.JobTypeDailySalesReport, date, 3)
	err := env.dispatcher.Execute(context.Background(), job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2026-08-25")
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestDispatcher_LowStockSweep(t *testing.T) {
	env := newDispatcherTestEnv(DefaultDispatcherConfig())

	env.stock.On("SweepLowStock", mock.Anything).
		Return(&inventoryapp.SweepResult{Checked: 42, Raised: 3}, nil)

	job := scheduler.NewJob(scheduler.JobTypeLowStockSweep, time.Time{}, 3)
	err := env.dispatcher.Execute(context.Background(), job)

	require.NoError(t, err)
	env.stock.AssertExpectations(t)
}

func TestDispatcher_PrintCleanup_UsesConfiguredRetention(t *testing.T) {
	cfg := DefaultDispatcherConfig()
	cfg.PrintRetentionDays = 30
	env := newDispatcherTestEnv(cfg)

	env.printJobs.On("CleanupOldJobs", mock.Anything, 30).
		Return(&printingapp.CleanupResult{RetentionDays: 30, FilesRemoved: 7, RecordsRemoved: 12}, nil)

	job := scheduler.NewJob(scheduler.JobTypePrintCleanup, time.Time{}, 3)
	err := env.dispatcher.Execute(context.Background(), job)

	require.NoError(t, err)
	env.printJobs.AssertExpectations(t)
}

func TestDispatcher_UploadCleanup_UsesConfiguredMaxAge(t *testing.T) {
	cfg := DefaultDispatcherConfig()
	cfg.UploadMaxAge = 6 * time.Hour
	env := newDispatcherTestEnv(cfg)

	env.uploads.On("CleanupPendingUploads", mock.Anything, 6*time.Hour).Return(2, nil)

	job := scheduler.NewJob(scheduler.JobTypeUploadCleanup, time.Time{}, 3)
	err := env.dispatcher.Execute(context.Background(), job)

	require.NoError(t, err)
	env.uploads.AssertExpectations(t)
}

func TestDispatcher_UnknownJobType(t *testing.T) {
	env := newDispatcherTestEnv(DefaultDispatcherConfig())

	job := scheduler.NewJob(scheduler.JobType("MONTHLY_PAYROLL"), time.Time{}, 3)
	err := env.dispatcher.Execute(context.Background(), job)

	assert.ErrorIs(t, err, scheduler.ErrInvalidJobType)
}

func TestNewDispatcher_DefaultsZeroConfig(t *testing.T) {
	env := &dispatcherTestEnv{
		reports:   new(MockReportGenerator),
		stock:     new(MockStockSweeper),
		uploads:   new(MockUploadCleaner),
		printJobs: new(MockPrintCleaner),
	}
	d := NewDispatcher(DispatcherConfig{}, env.reports, env.stock, env.uploads, env.printJobs, nil)

	env.printJobs.On("CleanupOldJobs", mock.Anything, 90).
		Return(&printingapp.CleanupResult{RetentionDays: 90}, nil)

	job := scheduler.NewJob(scheduler.JobTypePrintCleanup, time.Time{}, 3)
	require.NoError(t, d.Execute(context.Background(), job))
	env.printJobs.AssertExpectations(t)
}
