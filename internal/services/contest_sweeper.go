package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ContestSweeper runs the contest lifecycle sweep on a fixed interval.
type ContestSweeper struct {
	contests  ContestService
	logger    *slog.Logger
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewContestSweeper(contests ContestService, logger *slog.Logger, interval time.Duration) *ContestSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ContestSweeper{
		contests: contests,
		logger:   logger,
		interval: interval,
	}
}

func (s *ContestSweeper) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.runSweep),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler

	s.logger.Info("Contest sweeper started", "interval", s.interval)
	return nil
}

func (s *ContestSweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

func (s *ContestSweeper) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := s.contests.SweepStatuses(ctx)
	if err != nil {
		s.logger.Error("Contest sweep failed", "error", err)
		return
	}

	if result.ApplicationsOpened+result.Activated+result.SubmissionsClosed > 0 || result.Completed > 0 {
		s.logger.Info("Contest sweep finished",
			"applications_opened", result.ApplicationsOpened,
			"activated", result.Activated,
			"submissions_closed", result.SubmissionsClosed,
			"completed", result.Completed,
		)
	}
}
