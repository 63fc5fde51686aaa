// Package cron runs the scheduled background jobs: materializing
// recurring expenses and sweeping budgets for alerts.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/pocketledger/internal/domain/budget"
	"github.com/FACorreiaa/pocketledger/internal/domain/recurring"
	"github.com/FACorreiaa/pocketledger/internal/notify"
)

// Scheduler manages background jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	recurring *recurring.Service
	budgets   *budget.Service
	notifier  *notify.Notifier
	logger    *slog.Logger
}

func NewScheduler(rec *recurring.Service, budgets *budget.Service, notifier *notify.Notifier, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		recurring: rec,
		budgets:   budgets,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start registers and begins the scheduled jobs.
func (s *Scheduler) Start() error {
	// Recurring expense materializer: daily at 01:00.
	if _, err := s.cron.AddFunc("0 1 * * *", s.materializeRecurring); err != nil {
		return err
	}
	// Budget alert sweep: daily at 08:00.
	if _, err := s.cron.AddFunc("0 8 * * *", s.sweepBudgets); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started", slog.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Stop halts scheduling; the returned context closes when running jobs
// have drained.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

func (s *Scheduler) materializeRecurring() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	created, err := s.recurring.Materialize(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("recurring materialization failed", slog.Any("error", err))
		return
	}
	s.logger.Info("recurring materialization finished", slog.Int("created", created))
}

func (s *Scheduler) sweepBudgets() {
	if !s.notifier.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	users, err := s.budgets.UsersWithBudgets(ctx, now)
	if err != nil {
		s.logger.Error("budget sweep failed to list users", slog.Any("error", err))
		return
	}

	for _, userID := range users {
		breaches, err := s.budgets.Breaches(ctx, userID, now)
		if err != nil {
			s.logger.Warn("budget sweep failed for user",
				slog.String("user_id", userID.String()),
				slog.Any("error", err),
			)
			continue
		}
		if len(breaches) == 0 {
			continue
		}

		if err := s.notifier.SendBudgetAlert(ctx, breaches); err != nil {
			s.logger.Warn("budget alert delivery failed",
				slog.String("user_id", userID.String()),
				slog.Any("error", err),
			)
		}
	}
}
