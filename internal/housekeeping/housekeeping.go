package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/tiktok-downloader/internal/repositories/resolution"
	"github.com/orgball2608/tiktok-downloader/internal/session"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

const (
	defaultSweepInterval = 5 * time.Minute
	cleanupTimeout       = 5 * time.Minute
)

type Opts struct {
	fx.In

	LC       fx.Lifecycle
	Sessions *session.Store
	History  resolution.Repository
	Config   *config.Config
	Logger   logger.Logger
}

type Housekeeper struct {
	sessions  *session.Store
	history   resolution.Repository
	cfg       *config.Config
	logger    logger.Logger
	scheduler gocron.Scheduler
}

// New schedules idle-session eviction and, with Postgres enabled, the daily
// history cleanup. The scheduler follows the fx lifecycle.
func New(opts Opts) (*Housekeeper, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	h := &Housekeeper{
		sessions:  opts.Sessions,
		history:   opts.History,
		cfg:       opts.Config,
		logger:    opts.Logger.WithComponent("Housekeeping"),
		scheduler: scheduler,
	}
	if err := h.schedule(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			h.logger.Info("Housekeeping scheduler started", "jobs", len(scheduler.Jobs()))
			return nil
		},
		OnStop: func(context.Context) error {
			return scheduler.Shutdown()
		},
	})
	return h, nil
}

func (h *Housekeeper) schedule() error {
	interval := h.cfg.Session.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	_, err := h.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { h.SweepSessions() }),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	if !h.cfg.Postgres.Enabled {
		return nil
	}

	_, err = h.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
			defer cancel()
			if _, err := h.CleanupHistory(ctx); err != nil {
				h.logger.Error("History cleanup failed", "error", err)
			}
		}),
		gocron.WithName("history-cleanup"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule history cleanup: %w", err)
	}
	return nil
}

// SweepSessions evicts sessions idle for longer than the configured TTL.
func (h *Housekeeper) SweepSessions() int {
	removed := h.sessions.Sweep(h.cfg.Session.TTL)
	h.logger.Debug("Session sweep finished", "removed", removed, "active", h.sessions.Len())
	return removed
}

func (h *Housekeeper) CleanupHistory(ctx context.Context) (int64, error) {
	return h.history.CleanupOldRecords(ctx, h.cfg.Postgres.HistoryRetention)
}
