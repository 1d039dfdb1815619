package costing

import (
	"context"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Aggregator is the dish/recipe costing engine. It derives the four
// numeric totals of a DishCost from its line items, keeps the linked menu
// item priced, and triggers history entries on genuine cost changes.
//
// Writes are a sequence of independent statements by default, matching a
// store without transactions. WithTransactionalWrites wraps each
// multi-step mutation in a single transaction instead.
type Aggregator struct {
	db            *gorm.DB
	ledger        *HistoryLedger
	log           *zap.Logger
	transactional bool
}

// AggregatorOption configures an Aggregator
type AggregatorOption func(*Aggregator)

// WithTransactionalWrites makes every multi-step mutation run inside a
// single database transaction.
func WithTransactionalWrites() AggregatorOption {
	return func(a *Aggregator) {
		a.transactional = true
	}
}

// NewAggregator creates the costing engine over db
func NewAggregator(db *gorm.DB, ledger *HistoryLedger, log *zap.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{db: db, ledger: ledger, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IngredientLine is one recipe line as supplied by the caller. The total
// is computed from quantity and unit cost at write time; name, unit and
// unit cost are snapshots of the ingredient at that moment.
type IngredientLine struct {
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	UnitType       string  `json:"unit_type"`
	UnitCost       float64 `json:"unit_cost"`
}

// OverheadLine is one non-ingredient cost as supplied by the caller
type OverheadLine struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// DishCostDraft carries the fields for creating a dish cost
type DishCostDraft struct {
	DishName       string           `json:"dish_name"`
	MenuItemID     *uint            `json:"menu_item_id,omitempty"`
	ProfitMargin   float64          `json:"profit_margin"`
	Ingredients    []IngredientLine `json:"ingredients"`
	OverheadCosts  []OverheadLine   `json:"overhead_costs"`
	UseManualPrice bool             `json:"use_manual_price"`
	ManualPrice    *float64         `json:"manual_price,omitempty"`
}

// DishCostPatch carries a partial update; nil fields are left untouched.
// A supplied Ingredients or OverheadCosts list fully replaces the stored
// one.
type DishCostPatch struct {
	DishName       *string           `json:"dish_name,omitempty"`
	MenuItemID     *uint             `json:"menu_item_id,omitempty"`
	ProfitMargin   *float64          `json:"profit_margin,omitempty"`
	Ingredients    *[]IngredientLine `json:"ingredients,omitempty"`
	OverheadCosts  *[]OverheadLine   `json:"overhead_costs,omitempty"`
	UseManualPrice *bool             `json:"use_manual_price,omitempty"`
	ManualPrice    *float64          `json:"manual_price,omitempty"`
}

// SuggestedPrice returns the margin-adjusted price for a cost, or 0 when
// there is no cost to price. The margin is a percentage; values at or
// above 100 produce a meaningless result and are the caller's problem.
func SuggestedPrice(totalCost, profitMargin float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	return totalCost / (1 - profitMargin/100)
}

// EffectivePrice returns the manual price when the override is switched
// on and set, otherwise the suggested price.
func EffectivePrice(useManualPrice bool, manualPrice *float64, suggested float64) float64 {
	if useManualPrice && manualPrice != nil {
		return *manualPrice
	}
	return suggested
}

func sumIngredientLines(lines []IngredientLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Quantity * l.UnitCost
	}
	return sum
}

func sumOverheadLines(lines []OverheadLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Cost
	}
	return sum
}

// withScope runs fn against the plain connection or inside a transaction,
// depending on how the aggregator was built.
func (a *Aggregator) withScope(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if a.transactional {
		return a.db.WithContext(ctx).Transaction(fn)
	}
	return fn(a.db.WithContext(ctx))
}

// ListAll returns all dish costs with their line items and overheads
func (a *Aggregator) ListAll(ctx context.Context) ([]model.DishCost, error) {
	var dishes []model.DishCost
	if err := a.db.WithContext(ctx).
		Preload("Ingredients").Preload("OverheadCosts").
		Order("dish_name asc").Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

// Get returns one dish cost with its children
func (a *Aggregator) Get(ctx context.Context, id uint) (*model.DishCost, error) {
	var dish model.DishCost
	if err := a.db.WithContext(ctx).
		Preload("Ingredients").Preload("OverheadCosts").
		First(&dish, id).Error; err != nil {
		return nil, notFoundOrErr(err, "dish cost", id)
	}
	return &dish, nil
}

// Create computes the derived totals from the draft's line items, inserts
// the dish cost row and its children, and pushes the price onto the
// linked menu item when one is set.
func (a *Aggregator) Create(ctx context.Context, draft DishCostDraft) (*model.DishCost, error) {
	if draft.DishName == "" {
		return nil, &ValidationError{Field: "dish_name", Reason: "dish name cannot be empty"}
	}

	totalIngredientCost := sumIngredientLines(draft.Ingredients)
	totalOverheadCost := sumOverheadLines(draft.OverheadCosts)
	totalCost := totalIngredientCost + totalOverheadCost
	suggested := SuggestedPrice(totalCost, draft.ProfitMargin)
	effective := EffectivePrice(draft.UseManualPrice, draft.ManualPrice, suggested)

	dish := model.DishCost{
		DishName:            draft.DishName,
		MenuItemID:          draft.MenuItemID,
		TotalIngredientCost: totalIngredientCost,
		TotalOverheadCost:   totalOverheadCost,
		TotalCost:           totalCost,
		ProfitMargin:        draft.ProfitMargin,
		SuggestedPrice:      suggested,
		ManualPrice:         draft.ManualPrice,
		UseManualPrice:      draft.UseManualPrice,
	}

	err := a.withScope(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&dish).Error; err != nil {
			return err
		}
		if err := a.replaceIngredients(tx, dish.ID, draft.Ingredients); err != nil {
			return err
		}
		if err := a.replaceOverheads(tx, dish.ID, draft.OverheadCosts); err != nil {
			return err
		}
		if draft.MenuItemID != nil {
			if err := a.pushMenuItemPrice(tx, *draft.MenuItemID, totalCost, draft.ProfitMargin, effective); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("Dish cost created",
		zap.Uint("dish_cost_id", dish.ID),
		zap.String("dish_name", dish.DishName),
		zap.Float64("total_cost", totalCost),
		zap.Float64("suggested_price", suggested))

	return a.Get(ctx, dish.ID)
}

// Update applies a partial update. Supplied ingredient or overhead lists
// fully replace the stored ones; totals are always recomputed; a history
// entry is appended when a supplied child collection changed the total;
// the linked menu item is re-priced last.
func (a *Aggregator) Update(ctx context.Context, id uint, patch DishCostPatch) (*model.DishCost, error) {
	current, err := a.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	totalIngredientCost := current.TotalIngredientCost
	totalOverheadCost := current.TotalOverheadCost
	needsHistoryEntry := false

	if patch.Ingredients != nil {
		totalIngredientCost = sumIngredientLines(*patch.Ingredients)
		needsHistoryEntry = true
	}
	if patch.OverheadCosts != nil {
		totalOverheadCost = sumOverheadLines(*patch.OverheadCosts)
		needsHistoryEntry = true
	}

	totalCost := totalIngredientCost + totalOverheadCost

	profitMargin := current.ProfitMargin
	if patch.ProfitMargin != nil {
		profitMargin = *patch.ProfitMargin
	}
	suggested := SuggestedPrice(totalCost, profitMargin)

	useManualPrice := current.UseManualPrice
	if patch.UseManualPrice != nil {
		useManualPrice = *patch.UseManualPrice
	}
	manualPrice := current.ManualPrice
	if patch.ManualPrice != nil {
		manualPrice = patch.ManualPrice
	}
	effective := EffectivePrice(useManualPrice, manualPrice, suggested)

	updates := map[string]interface{}{
		"total_ingredient_cost": totalIngredientCost,
		"total_overhead_cost":   totalOverheadCost,
		"total_cost":            totalCost,
		"profit_margin":         profitMargin,
		"suggested_price":       suggested,
	}
	if patch.DishName != nil {
		updates["dish_name"] = *patch.DishName
	}
	if patch.MenuItemID != nil {
		updates["menu_item_id"] = *patch.MenuItemID
	}
	if patch.UseManualPrice != nil {
		updates["use_manual_price"] = *patch.UseManualPrice
	}
	if patch.ManualPrice != nil {
		updates["manual_price"] = *patch.ManualPrice
	}

	err = a.withScope(ctx, func(tx *gorm.DB) error {
		if patch.Ingredients != nil {
			if err := tx.Where("dish_cost_id = ?", id).Delete(&model.DishIngredient{}).Error; err != nil {
				return err
			}
			if err := a.replaceIngredients(tx, id, *patch.Ingredients); err != nil {
				return err
			}
		}
		if patch.OverheadCosts != nil {
			if err := tx.Where("dish_cost_id = ?", id).Delete(&model.OverheadCost{}).Error; err != nil {
				return err
			}
			if err := a.replaceOverheads(tx, id, *patch.OverheadCosts); err != nil {
				return err
			}
		}

		if err := tx.Model(&model.DishCost{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if needsHistoryEntry && current.TotalCost != totalCost {
			ledger := a.ledger
			if a.transactional {
				ledger = NewHistoryLedger(tx, a.log)
			}
			if _, err := ledger.Append(ctx, id, current.TotalCost, totalCost, ""); err != nil {
				return err
			}
		}

		if current.MenuItemID != nil {
			if err := a.pushMenuItemPrice(tx, *current.MenuItemID, totalCost, profitMargin, effective); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("Dish cost updated",
		zap.Uint("dish_cost_id", id),
		zap.Float64("previous_total", current.TotalCost),
		zap.Float64("total_cost", totalCost),
		zap.Float64("suggested_price", suggested))

	return a.Get(ctx, id)
}

// Delete removes a dish cost and its children. The linked menu item keeps
// whatever price was last pushed; the dangling link is only logged.
func (a *Aggregator) Delete(ctx context.Context, id uint) error {
	dish, err := a.Get(ctx, id)
	if err != nil {
		return err
	}

	err = a.withScope(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("dish_cost_id = ?", id).Delete(&model.DishIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dish_cost_id = ?", id).Delete(&model.OverheadCost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DishCost{}, id).Error
	})
	if err != nil {
		return err
	}

	if dish.MenuItemID != nil {
		a.log.Warn("Deleted dish cost was linked to a menu item; its price is no longer maintained",
			zap.Uint("dish_cost_id", id),
			zap.Uint("menu_item_id", *dish.MenuItemID))
	}

	a.log.Info("Dish cost deleted",
		zap.Uint("dish_cost_id", id),
		zap.String("dish_name", dish.DishName))
	return nil
}

// replaceIngredients bulk-inserts the recipe lines for a dish, computing
// each line total at write time.
func (a *Aggregator) replaceIngredients(tx *gorm.DB, dishCostID uint, lines []IngredientLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]model.DishIngredient, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, model.DishIngredient{
			DishCostID:     dishCostID,
			IngredientID:   l.IngredientID,
			IngredientName: l.IngredientName,
			Quantity:       l.Quantity,
			UnitType:       l.UnitType,
			UnitCost:       l.UnitCost,
			TotalCost:      l.Quantity * l.UnitCost,
		})
	}
	return tx.Create(&rows).Error
}

// replaceOverheads bulk-inserts the overhead lines for a dish
func (a *Aggregator) replaceOverheads(tx *gorm.DB, dishCostID uint, lines []OverheadLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]model.OverheadCost, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, model.OverheadCost{
			DishCostID:  dishCostID,
			Category:    l.Category,
			Description: l.Description,
			Cost:        l.Cost,
		})
	}
	return tx.Create(&rows).Error
}

// pushMenuItemPrice overwrites the costing fields of the linked menu
// item. One-way push; the write is never read back.
func (a *Aggregator) pushMenuItemPrice(tx *gorm.DB, menuItemID uint, totalCost, profitMargin, price float64) error {
	result := tx.Model(&model.MenuItem{}).Where("id = ?", menuItemID).Updates(map[string]interface{}{
		"cost":          totalCost,
		"profit_margin": profitMargin,
		"price":         price,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		a.log.Warn("Linked menu item not found for price push",
			zap.Uint("menu_item_id", menuItemID))
	}
	return nil
}
