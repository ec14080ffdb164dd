package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/postlane/postlane-backend/pkg/db/models"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/logger"
	"github.com/postlane/postlane-backend/pkg/metrics"
)

const (
	jobName          = "scheduled_publish"
	defaultInterval  = time.Minute
	defaultBatchSize = 100
)

type duePoller interface {
	DueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Content, error)
}

type publisher interface {
	FireScheduledPublish(ctx context.Context, contentID uuid.UUID) error
}

// SweeperParams configure the scheduled publish sweeper.
type SweeperParams struct {
	Logger    *logger.Logger
	Due       duePoller
	Publisher publisher
	Lock      Lock
	Metrics   *metrics.JobMetrics
	Interval  time.Duration
	BatchSize int
}

// Sweeper polls for scheduled content whose fire time has passed and
// publishes it.
type Sweeper struct {
	logg      *logger.Logger
	due       duePoller
	publisher publisher
	lock      Lock
	metrics   *metrics.JobMetrics
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewSweeper builds a sweeper.
func NewSweeper(params SweeperParams) (*Sweeper, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Due == nil {
		return nil, fmt.Errorf("due poller required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	lock := params.Lock
	if lock == nil {
		lock = NoopLock{}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Sweeper{
		logg:      params.Logger,
		due:       params.Due,
		publisher: params.Publisher,
		lock:      lock,
		metrics:   params.Metrics,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}, nil
}

// Run starts the sweep loop until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.runOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "sweeper context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		s.logg.Error(ctx, "sweep lock acquire failed", err)
		return
	}
	if !locked {
		s.logg.Info(ctx, "another sweeper instance is running; skipping this cycle")
		return
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release sweep lock", relErr)
		}
	}()

	jobCtx := s.logg.WithField(ctx, "job", jobName)
	start := s.now()
	fired, err := s.Sweep(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(jobName, duration)
	jobCtx = s.logg.WithField(jobCtx, "fired", fired)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "sweep completed with errors", err)
		s.metrics.IncFailure(jobName)
		return
	}
	s.logg.Info(jobCtx, "sweep complete")
	s.metrics.IncSuccess(jobName)
}

// Sweep publishes every due scheduled item once. A failed item does not stop
// the batch; errors are aggregated. Items that raced out of the scheduled
// status are skipped, not failed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	rows, err := s.due.DueScheduled(ctx, s.now().UTC(), s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("poll due scheduled: %w", err)
	}

	var fired int
	var errs error
	for i := range rows {
		id := rows[i].ID
		if err := s.publisher.FireScheduledPublish(ctx, id); err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("publish content %s: %w", id, err))
			continue
		}
		fired++
	}
	return fired, errs
}
