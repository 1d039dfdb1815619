package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"github.com/abela7/geez-restaurant-sub000/pkg/config"
	"github.com/abela7/geez-restaurant-sub000/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetryPolicy is the retry schedule for the bulk load: up to MaxAttempts
// total attempts, exponential backoff between them capped at MaxDelay,
// and a per-attempt deadline.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns the retry schedule used by the cost screens
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      2 * time.Second,
		MaxDelay:       10 * time.Second,
		AttemptTimeout: 15 * time.Second,
	}
}

// PolicyFromConfig builds a RetryPolicy from the loader configuration
func PolicyFromConfig(cfg *config.LoaderConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    cfg.MaxAttempts,
		BaseDelay:      cfg.BaseDelay,
		MaxDelay:       cfg.MaxDelay,
		AttemptTimeout: cfg.AttemptTimeout,
	}
}

// Delay returns the backoff before the attempt following failure number
// retryCount (zero-based): min(BaseDelay * 2^retryCount, MaxDelay).
func (p RetryPolicy) Delay(retryCount int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < retryCount; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Snapshot is the bulk state a cost-management screen opens with
type Snapshot struct {
	DishCosts   []model.DishCost        `json:"dish_costs"`
	Ingredients []model.Ingredient      `json:"ingredients"`
	Units       []model.MeasurementUnit `json:"units"`
	History     []model.DishCostHistory `json:"history"`
}

// Loader fetches the full costing snapshot with retry. Any error retries:
// the loader's job is getting the bulk data eventually, not error triage.
type Loader struct {
	db     *gorm.DB
	policy RetryPolicy
	log    *zap.Logger

	// fetch runs one load attempt; replaced in tests to inject failures
	fetch func(ctx context.Context) (*Snapshot, error)
}

// NewLoader creates a loader over db with the given retry policy
func NewLoader(db *gorm.DB, policy RetryPolicy, log *zap.Logger) *Loader {
	l := &Loader{db: db, policy: policy, log: log}
	l.fetch = l.loadOnce
	return l
}

// LoadAll fetches dish costs (with children), ingredients, units and
// history, retrying per the policy. The attempt count lives in this call
// frame, so a successful load always starts the next call from zero.
func (l *Loader) LoadAll(ctx context.Context) (*Snapshot, error) {
	var lastErr error

	for attempt := 0; attempt < l.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := l.policy.Delay(attempt - 1)
			l.log.Warn("Cost data load failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(lastErr))
			prometheus.LoadRetriesCounter.Inc()

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		prometheus.LoadAttemptsCounter.Inc()
		snapshot, err := l.fetch(ctx)
		if err == nil {
			l.log.Info("Cost data loaded",
				zap.Int("dish_costs", len(snapshot.DishCosts)),
				zap.Int("ingredients", len(snapshot.Ingredients)),
				zap.Int("units", len(snapshot.Units)),
				zap.Int("history_entries", len(snapshot.History)))
			return snapshot, nil
		}
		lastErr = err
	}

	prometheus.LoadFailuresCounter.Inc()
	l.log.Error("Cost data load failed after all retries",
		zap.Int("attempts", l.policy.MaxAttempts),
		zap.Error(lastErr))
	return nil, fmt.Errorf("loading cost data failed after %d attempts: %w", l.policy.MaxAttempts, lastErr)
}

// loadOnce runs one combined fetch under the per-attempt deadline. A hung
// store call surfaces as context.DeadlineExceeded instead of hanging the
// caller.
func (l *Loader) loadOnce(ctx context.Context) (*Snapshot, error) {
	attemptCtx := ctx
	if l.policy.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, l.policy.AttemptTimeout)
		defer cancel()
	}
	db := l.db.WithContext(attemptCtx)

	var snapshot Snapshot
	if err := db.Preload("Ingredients").Preload("OverheadCosts").
		Order("dish_name asc").Find(&snapshot.DishCosts).Error; err != nil {
		return nil, err
	}
	if err := db.Order("name asc").Find(&snapshot.Ingredients).Error; err != nil {
		return nil, err
	}
	if err := db.Order("name asc").Find(&snapshot.Units).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("DishCost").Order("change_date desc").
		Find(&snapshot.History).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}
