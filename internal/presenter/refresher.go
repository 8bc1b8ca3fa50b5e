package presenter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher periodically reloads the city a Presenter is showing.
type Refresher struct {
	scheduler *gocron.Scheduler
	presenter *Presenter
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// NewRefresher creates a Refresher. An interval of zero disables it.
func NewRefresher(p *Presenter, interval, timeout time.Duration, logger *slog.Logger) *Refresher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		presenter: p,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the refresh job. The first run happens one interval from now.
func (r *Refresher) Start() error {
	if r.interval <= 0 {
		r.logger.Debug("refresh disabled")
		return nil
	}

	_, err := r.scheduler.Every(r.interval).SingletonMode().WaitForSchedule().Do(r.refresh)
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	r.logger.Info("refresh scheduled", "interval", r.interval)
	return nil
}

// Stop cancels future refreshes.
func (r *Refresher) Stop() {
	if r.scheduler.IsRunning() {
		r.scheduler.Stop()
	}
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.presenter.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		r.logger.Warn("scheduled refresh failed", "error", err)
	}
}
