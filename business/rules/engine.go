package rules

import (
	"context"
	"fmt"
	"productInfoAgent/business/settings"
	"productInfoAgent/domain"
	"productInfoAgent/pkg/logger"
	"time"
)

type Verdict int

const (
	Pass Verdict = iota
	Fail
	// Inconclusive means the check could not be evaluated. It never hides the assistant.
	Inconclusive
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "inconclusive"
	}
}

// ---- Repository interfaces ----

type SettingsProvider interface {
	AdvancedRulesEnabled(ctx context.Context) (bool, error)
	TimeRules(ctx context.Context) (settings.TimeRules, error)
	SegmentRules(ctx context.Context) (settings.SegmentRules, error)
	CategoryRules(ctx context.Context) (settings.CategoryRules, error)
	ProductTypes(ctx context.Context) ([]string, error)
	StockPolicy(ctx context.Context) (string, error)
	AttributeFilters(ctx context.Context) (map[string]any, error)
}

type CatalogRepository interface {
	CountCategoryProducts(ctx context.Context, categoryID uint64) (int64, error)
	GetStockItem(ctx context.Context, productID uint64) (domain.StockItem, error)
}

// Input is what every check sees.
type Input struct {
	Product    *domain.Product
	CategoryID *uint64
	Context    domain.DisplayContext
}

type Check struct {
	Name string
	Eval func(ctx context.Context, in Input) (Verdict, error)
}

type Engine struct {
	settings SettingsProvider
	catalog  CatalogRepository
	checks   []Check
	now      func() time.Time
}

func NewEngine(settings SettingsProvider, catalog CatalogRepository) *Engine {
	e := &Engine{
		settings: settings,
		catalog:  catalog,
		now:      time.Now,
	}

	e.checks = []Check{
		{Name: "time", Eval: e.checkTime},
		{Name: "customer_segment", Eval: e.checkSegment},
		{Name: "category", Eval: e.checkCategory},
		{Name: "product_type", Eval: e.checkProductType},
		{Name: "stock", Eval: e.checkStock},
		{Name: "attributes", Eval: e.checkAttributes},
	}

	return e
}

// ShouldDisplay reports whether the assistant may be shown for the given
// product and category. Both may be nil. When advanced rules are off every
// page is allowed; otherwise the first failing check hides the assistant.
// Errors inside the engine never hide it.
func (e *Engine) ShouldDisplay(
	ctx context.Context,
	product *domain.Product,
	categoryID *uint64,
	dctx domain.DisplayContext,
) (display bool) {
	defer func() {
		if r := recover(); r != nil {
			RuleEngineFailOpenTotal.Inc()
			logger.Error("rules_engine_panic", "error", fmt.Sprint(r), "page", dctx.PageIdentifier)
			display = true
		}
	}()

	enabled, err := e.settings.AdvancedRulesEnabled(ctx)
	if err != nil {
		RuleEngineFailOpenTotal.Inc()
		logger.Error("rules_engine_error", "error", err, "page", dctx.PageIdentifier)
		return true
	}
	if !enabled {
		return true
	}

	in := Input{Product: product, CategoryID: categoryID, Context: dctx}

	for _, c := range e.checks {
		v, err := c.Eval(ctx, in)
		if err != nil {
			logger.Warn("rules_check_inconclusive", "check", c.Name, "error", err)
			v = Inconclusive
		}
		RuleCheckVerdictsTotal.WithLabelValues(c.Name, v.String()).Inc()

		if v == Fail {
			logger.Debug("rules_check_failed",
				"check", c.Name,
				"page", dctx.PageIdentifier,
				"identity", dctx.Identity.String(),
			)
			return false
		}
	}

	return true
}
