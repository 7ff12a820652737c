package app

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/query"
)

// StartScheduler schedules the query cache sweep on the configured interval.
// An empty sweep interval leaves the scheduler off.
func (a *App) StartScheduler() error {
	interval := a.Config.Query.SweepInterval
	if interval == "" {
		return nil
	}
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid sweep interval %q", interval)
	}

	a.StopScheduler()

	c := cron.New()
	if _, err := c.AddFunc("@every "+d.String(), func() {
		sweepCache(a.Cache, a.Logger)
	}); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	c.Start()
	a.scheduler = c

	a.Logger.Info().Dur("interval", d).Msg("Cache sweep: scheduled")
	return nil
}

// StopScheduler stops the sweep and waits for a running sweep to finish.
func (a *App) StopScheduler() {
	if a.scheduler == nil {
		return
	}
	<-a.scheduler.Stop().Done()
	a.scheduler = nil
	a.Logger.Info().Msg("Cache sweep: stopped")
}

func sweepCache(cache *query.Cache, logger *common.Logger) {
	start := time.Now()
	removed := cache.Sweep()
	if removed == 0 {
		return
	}
	logger.Debug().
		Int("removed", removed).
		Int("remaining", cache.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Cache sweep: complete")
}
