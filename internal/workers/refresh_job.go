// Package workers holds the background jobs of the data layer.
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/service"
)

// CloudRefreshJob periodically re-fetches the remote mood documents into the
// active session so a cloud-mode user sees check-ins made on other devices.
// The job is idle until Start is called.
type CloudRefreshJob struct {
	moods  service.MoodService
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCloudRefreshJob creates a CloudRefreshJob over the mood service.
func NewCloudRefreshJob(moods service.MoodService, logger *logger.Logger) *CloudRefreshJob {
	return &CloudRefreshJob{moods: moods, logger: logger}
}

// Start stops any previously running job, then launches a background
// goroutine that calls RefreshFromCloud every interval. If interval is zero
// or negative it defaults to 5 minutes. The goroutine exits when ctx is
// cancelled or Stop is called; an in-flight refresh is not waited for beyond
// its own context.
func (j *CloudRefreshJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.moods.RefreshFromCloud(jobCtx); err != nil {
					j.logger.Warn().
						Err(err).
						Str("func", "CloudRefreshJob").
						Msg("cloud mood refresh failed")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until it has
// fully exited. Safe to call when the job is not running.
func (j *CloudRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
