package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"balcao/internal/analytics"
	"balcao/internal/jobs"
	"balcao/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const (
	JobLowStockAlerts    = "low-stock-alerts"
	JobDailyReportExport = "daily-report-export"
)

// Options configures the scheduled jobs.
type Options struct {
	LowStockThreshold int
	AlertInterval     time.Duration
	// ExportReports enables the nightly export of yesterday's report.
	ExportReports bool
	ExportHour    uint
	ExportMinute  uint
	Location      *time.Location
}

// JobScheduler runs the periodic maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	alerts    *jobs.InventoryAlertService
	reports   services.ReportService
	opts      Options
	logger    zerolog.Logger
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with the alert job and, when enabled,
// the report export job registered but not started.
func NewJobScheduler(alerts *jobs.InventoryAlertService, reports services.ReportService, opts Options, logger zerolog.Logger) (*JobScheduler, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.AlertInterval <= 0 {
		opts.AlertInterval = 30 * time.Minute
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(opts.Location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alerts:    alerts,
		reports:   reports,
		opts:      opts,
		logger:    logger.With().Str("component", "scheduler").Logger(),
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs to finish and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// Tasks take the job context, which gocron cancels on Shutdown.
func (js *JobScheduler) registerJobs() error {
	alertJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.opts.AlertInterval),
		gocron.NewTask(js.processInventoryAlerts),
		gocron.WithName(JobLowStockAlerts),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", JobLowStockAlerts, err)
	}
	js.jobs[JobLowStockAlerts] = alertJob

	if !js.opts.ExportReports || js.reports == nil {
		return nil
	}

	exportJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(js.opts.ExportHour, js.opts.ExportMinute, 0))),
		gocron.NewTask(js.exportDailyReport),
		gocron.WithName(JobDailyReportExport),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", JobDailyReportExport, err)
	}
	js.jobs[JobDailyReportExport] = exportJob
	return nil
}

func (js *JobScheduler) processInventoryAlerts(ctx context.Context) error {
	return js.alerts.Run(ctx, js.opts.LowStockThreshold)
}

// exportDailyReport writes yesterday's report to object storage.
func (js *JobScheduler) exportDailyReport(ctx context.Context) error {
	object, err := js.reports.Export(ctx, analytics.RangeYesterday, js.now().In(js.opts.Location))
	if err != nil {
		js.logger.Error().Err(err).Msg("daily report export failed")
		return err
	}
	js.logger.Info().Str("object", object).Msg("daily report exported")
	return nil
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q is not registered", name)
	}
	return job.RunNow()
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}

	return nil
}

// JobNames returns the registered job names in sorted order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
