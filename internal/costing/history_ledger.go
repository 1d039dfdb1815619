package costing

import (
	"context"
	"math"
	"time"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"github.com/abela7/geez-restaurant-sub000/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// costEpsilon is the cent-scale threshold below which a cost change is
// treated as noise and no history entry is written.
const costEpsilon = 0.01

// defaultChangeReason is stamped on entries appended without a reason
const defaultChangeReason = "Cost update"

// HistoryLedger is the append-only audit trail of dish cost changes.
type HistoryLedger struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewHistoryLedger creates a history ledger backed by db
func NewHistoryLedger(db *gorm.DB, log *zap.Logger) *HistoryLedger {
	return &HistoryLedger{db: db, log: log}
}

// List returns all entries ordered by change date descending, with the
// owning dish joined for display.
func (l *HistoryLedger) List(ctx context.Context) ([]model.DishCostHistory, error) {
	var entries []model.DishCostHistory
	if err := l.db.WithContext(ctx).Preload("DishCost").
		Order("change_date desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// HistoryFor returns the entries for one dish, newest first
func (l *HistoryLedger) HistoryFor(ctx context.Context, dishCostID uint) ([]model.DishCostHistory, error) {
	var entries []model.DishCostHistory
	if err := l.db.WithContext(ctx).
		Where("dish_cost_id = ?", dishCostID).
		Order("change_date desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Append writes a history entry for a cost change. Deltas below the cent
// epsilon are suppressed and return nil without error; the suppression is
// a deliberate no-op signal, not a failure.
func (l *HistoryLedger) Append(ctx context.Context, dishCostID uint, previousCost, newCost float64, reason string) (*model.DishCostHistory, error) {
	delta := math.Abs(previousCost - newCost)
	if delta < costEpsilon {
		prometheus.HistorySuppressedCounter.Inc()
		l.log.Debug("Cost change below epsilon, history entry suppressed",
			zap.Uint("dish_cost_id", dishCostID),
			zap.Float64("previous_cost", previousCost),
			zap.Float64("new_cost", newCost))
		return nil, nil
	}

	if reason == "" {
		reason = defaultChangeReason
	}

	entry := model.DishCostHistory{
		DishCostID:   dishCostID,
		PreviousCost: previousCost,
		NewCost:      newCost,
		ChangeDate:   time.Now(),
		Reason:       reason,
	}
	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	prometheus.HistoryEntriesCounter.Inc()
	l.log.Info("Cost history entry written",
		zap.Uint("dish_cost_id", dishCostID),
		zap.Float64("previous_cost", previousCost),
		zap.Float64("new_cost", newCost),
		zap.String("reason", reason))
	return &entry, nil
}

// AverageDelta returns the mean signed cost change across all entries,
// or 0 for an empty ledger.
func (l *HistoryLedger) AverageDelta(ctx context.Context) (float64, error) {
	var entries []model.DishCostHistory
	if err := l.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	var sum float64
	for _, e := range entries {
		sum += e.NewCost - e.PreviousCost
	}
	return sum / float64(len(entries)), nil
}
