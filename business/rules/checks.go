package rules

import (
	"context"
	"fmt"
	"productInfoAgent/pkg/logger"
	"slices"
	"sort"
	"strconv"
	"strings"
)

const defaultLowStockThreshold = 5

const (
	StockAll               = "all"
	StockInStockOnly       = "in_stock_only"
	StockOutOfStockOnly    = "out_of_stock_only"
	StockLowStockOnly      = "low_stock_only"
	StockExcludeOutOfStock = "exclude_out_of_stock"
)

// checkTime evaluates the daily [start,end) window in UTC minutes and the
// allowed weekdays. A window with start after end wraps past midnight; an
// equal start and end covers the whole day.
func (e *Engine) checkTime(ctx context.Context, in Input) (Verdict, error) {
	rules, err := e.settings.TimeRules(ctx)
	if err != nil {
		return Inconclusive, err
	}
	if rules.Empty() {
		return Pass, nil
	}

	now := e.now().UTC()

	if rules.BusinessHours != nil {
		start, err := parseClock(rules.BusinessHours.Start, 0)
		if err != nil {
			return Inconclusive, err
		}
		end, err := parseClock(rules.BusinessHours.End, 24*60)
		if err != nil {
			return Inconclusive, err
		}

		minute := now.Hour()*60 + now.Minute()
		if !inWindow(minute, start, end) {
			return Fail, nil
		}
	}

	if len(rules.Days) > 0 {
		today := strings.ToLower(now.Weekday().String())
		allowed := false
		for _, d := range rules.Days {
			if strings.ToLower(strings.TrimSpace(d)) == today {
				allowed = true
				break
			}
		}
		if !allowed {
			return Fail, nil
		}
	}

	return Pass, nil
}

func inWindow(minute, start, end int) bool {
	switch {
	case start == end:
		return true
	case start < end:
		return minute >= start && minute < end
	default:
		return minute >= start || minute < end
	}
}

// parseClock parses "HH:MM" into minutes since midnight. "24:00" is accepted.
func parseClock(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock out of range %q", s)
	}

	return h*60 + m, nil
}

// checkSegment only enforces registered_only. VIP and new customer rules are
// accepted in configuration but have no effect.
func (e *Engine) checkSegment(ctx context.Context, in Input) (Verdict, error) {
	rules, err := e.settings.SegmentRules(ctx)
	if err != nil {
		return Inconclusive, err
	}
	if rules.Empty() {
		return Pass, nil
	}

	if in.Context.Identity.IsGuest() && bool(rules.RegisteredOnly) {
		return Fail, nil
	}

	return Pass, nil
}

func (e *Engine) checkCategory(ctx context.Context, in Input) (Verdict, error) {
	if in.CategoryID == nil || *in.CategoryID == 0 {
		return Pass, nil
	}
	categoryID := *in.CategoryID

	rules, err := e.settings.CategoryRules(ctx)
	if err != nil {
		return Inconclusive, err
	}
	if rules.Empty() {
		return Pass, nil
	}

	if rules.ExcludeCategories.Contains(categoryID) {
		return Fail, nil
	}

	if rules.IncludeCategories != nil && !rules.IncludeCategories.Contains(categoryID) {
		return Fail, nil
	}

	cond, ok := rules.ConditionFor(categoryID)
	if ok && cond.MinProducts != nil {
		count, err := e.catalog.CountCategoryProducts(ctx, categoryID)
		if err != nil {
			logger.Warn("rules_category_condition_failed", "category_id", categoryID, "error", err)
			return Pass, nil
		}
		if count < *cond.MinProducts {
			return Fail, nil
		}
	}

	return Pass, nil
}

func (e *Engine) checkProductType(ctx context.Context, in Input) (Verdict, error) {
	if in.Product == nil {
		return Pass, nil
	}

	types, err := e.settings.ProductTypes(ctx)
	if err != nil {
		return Inconclusive, err
	}
	if len(types) == 0 {
		return Pass, nil
	}

	if slices.Contains(types, in.Product.TypeID) {
		return Pass, nil
	}
	return Fail, nil
}

func (e *Engine) checkStock(ctx context.Context, in Input) (Verdict, error) {
	if in.Product == nil {
		return Pass, nil
	}

	policy, err := e.settings.StockPolicy(ctx)
	if err != nil {
		return Inconclusive, err
	}

	switch policy {
	case StockInStockOnly, StockOutOfStockOnly, StockLowStockOnly, StockExcludeOutOfStock:
	default:
		// "", "all" and unknown policies
		return Pass, nil
	}

	item, err := e.catalog.GetStockItem(ctx, in.Product.ID)
	if err != nil {
		return Inconclusive, fmt.Errorf("stock lookup for product %d: %w", in.Product.ID, err)
	}

	var ok bool
	switch policy {
	case StockInStockOnly, StockExcludeOutOfStock:
		ok = item.IsInStock
	case StockOutOfStockOnly:
		ok = !item.IsInStock
	case StockLowStockOnly:
		threshold := item.MinQty
		if threshold == 0 {
			threshold = defaultLowStockThreshold
		}
		ok = item.IsInStock && item.Qty <= threshold
	}

	if !ok {
		return Fail, nil
	}
	return Pass, nil
}

// checkAttributes requires every configured attribute filter to match. An
// attribute whose value cannot be compared is skipped.
func (e *Engine) checkAttributes(ctx context.Context, in Input) (Verdict, error) {
	if in.Product == nil {
		return Pass, nil
	}

	filters, err := e.settings.AttributeFilters(ctx)
	if err != nil {
		return Inconclusive, err
	}
	if len(filters) == 0 {
		return Pass, nil
	}

	codes := make([]string, 0, len(filters))
	for code := range filters {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		value, _ := in.Product.AttributeValue(code)

		ok, err := matchAttribute(value, filters[code])
		if err != nil {
			logger.Warn("rules_attribute_filter_skipped", "attribute", code, "error", err)
			continue
		}
		if !ok {
			return Fail, nil
		}
	}

	return Pass, nil
}
