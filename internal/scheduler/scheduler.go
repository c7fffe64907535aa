// Package scheduler runs the weekly pending-report job on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ReportSender is the job the scheduler triggers.
type ReportSender interface {
	// SendWeeklyPendingReport builds and mails the pending-work digest.
	SendWeeklyPendingReport(ctx context.Context) error
}

// Scheduler wraps a cron runner for the weekly report.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a Scheduler firing the report on the given cron spec, for
// example "0 11 * * 6" for Saturday 11:00.
func New(spec string, sender ReportSender) (*Scheduler, error) {
	c := cron.New()
	logger := slog.Default()

	_, err := c.AddFunc(spec, func() {
		if err := sender.SendWeeklyPendingReport(context.Background()); err != nil {
			logger.Error("weekly report job failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("report scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("report scheduler stopped")
}
