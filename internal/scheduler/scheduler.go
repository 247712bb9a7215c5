package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"rentstack-backend/internal/jobs"
	"rentstack-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Secure reservations before the overdue sweep runs
	_, err := s.cron.AddFunc(cfg.SecureReservations, s.jobs.SecureUpcomingReservations)
	if err != nil {
		logger.Error("Failed to register SecureUpcomingReservations job", "error", err)
	}

	// Mark overdue orders
	_, err = s.cron.AddFunc(cfg.MarkOverdueOrders, s.jobs.MarkOverdueOrders)
	if err != nil {
		logger.Error("Failed to register MarkOverdueOrders job", "error", err)
	}

	// Send return reminders
	_, err = s.cron.AddFunc(cfg.SendReturnReminders, s.jobs.SendReturnReminders)
	if err != nil {
		logger.Error("Failed to register SendReturnReminders job", "error", err)
	}

	// Report low stock
	_, err = s.cron.AddFunc(cfg.ReportLowStock, s.jobs.ReportLowStock)
	if err != nil {
		logger.Error("Failed to register ReportLowStock job", "error", err)
	}

	// Audit ledger vs committed orders
	_, err = s.cron.AddFunc(cfg.AuditOvercommit, s.jobs.AuditOvercommit)
	if err != nil {
		logger.Error("Failed to register AuditOvercommit job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
