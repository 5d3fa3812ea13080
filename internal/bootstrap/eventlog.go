package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/eventlog"
	"github.com/osse101/prizegrid/internal/repository"
	"github.com/osse101/prizegrid/internal/scheduler"
	"github.com/osse101/prizegrid/internal/worker"
)

// BackgroundJobs owns the worker pool and the scheduler feeding it
type BackgroundJobs struct {
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
}

// Stop halts the scheduler before the pool so no job is enqueued on a
// stopped pool.
func (b *BackgroundJobs) Stop() {
	if b.Scheduler != nil {
		b.Scheduler.Stop()
	}
	if b.Pool != nil {
		b.Pool.Stop()
	}
}

// InitializeEventLog subscribes the persistent event log to the bus and
// schedules its retention cleanup. The cleanup runs once at startup and then
// every cfg.EventLogCleanupInterval.
func InitializeEventLog(ctx context.Context, cfg *config.Config, repo repository.EventLog, bus event.Bus) (eventlog.Service, *BackgroundJobs, error) {
	svc := eventlog.NewService(repo)
	if err := svc.Subscribe(bus); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLog, err)
	}

	workers := cfg.WorkerCount
	if workers <= 0 {
		workers = config.DefaultWorkerCount
	}
	pool := worker.NewPool(workers, config.DefaultWorkerQueueSize)
	pool.Start(ctx)
	jobs := &BackgroundJobs{Pool: pool, Scheduler: scheduler.New(pool)}

	if cfg.EventLogRetentionDays == 0 {
		slog.Warn(LogMsgEventLogKeptForever)
		return svc, jobs, nil
	}

	interval := cfg.EventLogCleanupInterval
	if interval <= 0 {
		interval = config.DefaultEventLogCleanupInterval
	}
	jobs.Scheduler.Schedule(interval, eventlog.NewCleanupJob(svc, cfg.EventLogRetentionDays), true)
	slog.Info(LogMsgEventLogCleanupScheduled,
		"retention_days", cfg.EventLogRetentionDays,
		"interval", interval)

	return svc, jobs, nil
}
