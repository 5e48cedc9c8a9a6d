package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/utils"
)

// Sweeper periodically runs Downloads.Sweep
type Sweeper struct {
	cron      *cron.Cron
	downloads *Downloads
	timeout   time.Duration
}

// NewSweeper schedules a sweep of downloads. schedule accepts a cron
// expression with seconds or a descriptor such as "@every 5m".
func NewSweeper(downloads *Downloads, schedule string) (*Sweeper, error) {
	s := &Sweeper{
		cron:      cron.New(cron.WithSeconds()),
		downloads: downloads,
		timeout:   time.Minute,
	}

	if _, err := s.cron.AddFunc(schedule, s.Run); err != nil {
		return nil, fmt.Errorf("failed to add sweep job: %w", err)
	}
	return s, nil
}

// Run performs a single sweep
func (s *Sweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	removed, err := s.downloads.Sweep(ctx)
	if err != nil {
		utils.LogError("Export sweep failed", err, map[string]interface{}{
			"removed": removed,
		})
		return
	}
	if removed > 0 {
		utils.LogInfo("🧹 Export sweep finished", map[string]interface{}{
			"removed": removed,
		})
	}
}

// Start starts the scheduler
func (s *Sweeper) Start() {
	utils.LogInfo("⏰ Starting export sweeper", nil)
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running sweep
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	utils.LogInfo("✅ Export sweeper stopped", nil)
}
