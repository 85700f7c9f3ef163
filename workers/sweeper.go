package workers

import (
	"context"
	"time"

	"fanlink_server/services"

	log "github.com/sirupsen/logrus"
)

// StorySweeper periodically purges expired stories. The sweep itself is
// re-run safe, so overlapping triggers (restart during a tick, manual
// sweep over HTTP) are harmless.
type StorySweeper struct {
	Stories  *services.StoryService
	Interval time.Duration
}

func NewStorySweeper(stories *services.StoryService, interval time.Duration) *StorySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &StorySweeper{Stories: stories, Interval: interval}
}

// Start runs the sweep loop until ctx is cancelled. One sweep runs
// immediately so expired stories do not linger across restarts.
func (s *StorySweeper) Start(ctx context.Context) {
	go func() {
		s.sweep(ctx)

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-ctx.Done():
				log.Println("Story sweeper stopped")
				return
			}
		}
	}()
}

func (s *StorySweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	result, err := s.Stories.SweepExpired(sweepCtx)
	if err != nil {
		log.Errorf("❌ Story sweep failed: %v", err)
		return
	}
	if result.PurgedCount > 0 {
		log.Printf("🧹 Story sweep removed %d expired stories", result.PurgedCount)
	}
}
