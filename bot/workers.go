package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// TradeSweepSchedule runs the trade expiry backstop every 30 seconds
const TradeSweepSchedule = "*/30 * * * * *"

// warmupTimeout bounds one scheduled pool refresh
const warmupTimeout = 2 * time.Minute

// PoolWarmer refreshes the player pool ahead of demand
type PoolWarmer interface {
	Warm(ctx context.Context) error
}

// TradeSweeper expires overdue trades whose timers did not fire
type TradeSweeper interface {
	SweepExpired() int
}

// CooldownPruner forgets cooldowns that have run out
type CooldownPruner interface {
	Prune() int
}

// Workers runs the scheduled background jobs
type Workers struct {
	pool      PoolWarmer
	trades    TradeSweeper
	cooldowns CooldownPruner
	scheduler *cron.Cron
}

// NewWorkers creates the scheduled jobs without starting them
func NewWorkers(pool PoolWarmer, trades TradeSweeper, cooldowns CooldownPruner) *Workers {
	return &Workers{
		pool:      pool,
		trades:    trades,
		cooldowns: cooldowns,
		scheduler: cron.New(cron.WithSeconds()),
	}
}

// Start schedules the jobs, warms the pool once right away and returns a
// function that stops the scheduler and waits for running jobs.
func (w *Workers) Start(warmupSchedule string) (func(), error) {
	if _, err := w.scheduler.AddFunc(warmupSchedule, w.warmPool); err != nil {
		return nil, fmt.Errorf("invalid pool warmup schedule %q: %w", warmupSchedule, err)
	}
	if _, err := w.scheduler.AddFunc(TradeSweepSchedule, w.sweep); err != nil {
		return nil, fmt.Errorf("invalid trade sweep schedule: %w", err)
	}

	go w.warmPool()
	w.scheduler.Start()
	log.WithFields(log.Fields{
		"warmup_schedule": warmupSchedule,
		"sweep_schedule":  TradeSweepSchedule,
	}).Info("Background workers started")

	return func() {
		<-w.scheduler.Stop().Done()
		log.Info("Background workers stopped")
	}, nil
}

func (w *Workers) warmPool() {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()

	start := time.Now()
	if err := w.pool.Warm(ctx); err != nil {
		log.WithError(err).Warn("Scheduled player pool warmup failed")
		return
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Player pool warmed")
}

func (w *Workers) sweep() {
	expired := w.trades.SweepExpired()
	pruned := w.cooldowns.Prune()
	if expired > 0 || pruned > 0 {
		log.WithFields(log.Fields{
			"expired_trades":   expired,
			"pruned_cooldowns": pruned,
		}).Debug("Sweep completed")
	}
}
