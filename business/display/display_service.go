package display

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"productInfoAgent/domain"
	"productInfoAgent/pkg/logger"
	"strconv"
)

type SettingsProvider interface {
	AgentEnabled(ctx context.Context) (bool, error)
	ShowOnProductPages(ctx context.Context) (bool, error)
	ShowOnCategoryPages(ctx context.Context) (bool, error)
	ShowOnCMSPages(ctx context.Context) (bool, error)
}

type ProductRepository interface {
	FindProductByID(ctx context.Context, id uint64) (domain.Product, error)
}

type RuleEngine interface {
	ShouldDisplay(ctx context.Context, product *domain.Product, categoryID *uint64, dctx domain.DisplayContext) bool
}

type displayService struct {
	settings    SettingsProvider
	productRepo ProductRepository
	engine      RuleEngine
}

func NewDisplayService(settings SettingsProvider, productRepo ProductRepository, engine RuleEngine) *displayService {
	return &displayService{
		settings:    settings,
		productRepo: productRepo,
		engine:      engine,
	}
}

// ShouldDisplayChat applies the page level switches and then the rule engine.
func (s *displayService) ShouldDisplayChat(ctx context.Context, req domain.PageRequest) (domain.DisplayDecision, error) {
	if err := ctx.Err(); err != nil {
		return domain.DisplayDecision{}, fmt.Errorf("context error: %w", err)
	}

	var product *domain.Product
	if req.ProductID != nil && *req.ProductID != 0 {
		p, err := s.productRepo.FindProductByID(ctx, *req.ProductID)
		if err != nil {
			logger.Error("Failed to find product for display check", "product_id", *req.ProductID, "error", err)
			return domain.DisplayDecision{}, err
		}
		product = &p
	}

	decision := domain.DisplayDecision{
		PageType:       PageType(req, product),
		PageIdentifier: PageIdentifier(req, product),
	}

	enabled, err := s.settings.AgentEnabled(ctx)
	if err != nil {
		return decision, fmt.Errorf("read agent switch: %w", err)
	}
	if !enabled {
		return decision, nil
	}

	var categoryID *uint64
	var pageSwitch func(context.Context) (bool, error)

	switch decision.PageType {
	case domain.PageTypeProduct:
		pageSwitch = s.settings.ShowOnProductPages
	case domain.PageTypeCategory:
		pageSwitch = s.settings.ShowOnCategoryPages
		if id, err := strconv.ParseUint(req.Params["id"], 10, 64); err == nil {
			categoryID = &id
		}
	case domain.PageTypeCMS:
		pageSwitch = s.settings.ShowOnCMSPages
	default:
		return decision, nil
	}

	show, err := pageSwitch(ctx)
	if err != nil {
		return decision, fmt.Errorf("read %s page switch: %w", decision.PageType, err)
	}
	if !show {
		return decision, nil
	}

	decision.Display = s.engine.ShouldDisplay(ctx, product, categoryID, domain.DisplayContext{
		PageType:       decision.PageType,
		PageIdentifier: decision.PageIdentifier,
		Identity:       req.Identity,
		Params:         req.Params,
	})

	logger.Debug("display_decision",
		"page_type", decision.PageType,
		"page", decision.PageIdentifier,
		"display", decision.Display,
	)

	return decision, nil
}

func isCategoryPage(req domain.PageRequest) bool {
	return (req.Module == "catalog" && req.Action == "view") ||
		(req.Module == "catalogsearch" && req.Action == "index")
}

func PageType(req domain.PageRequest, product *domain.Product) domain.PageType {
	switch {
	case product != nil && product.ID != 0:
		return domain.PageTypeProduct
	case isCategoryPage(req):
		return domain.PageTypeCategory
	case req.Module == "cms":
		return domain.PageTypeCMS
	default:
		return domain.PageTypeUnknown
	}
}

// PageIdentifier names the page for logging and rule context.
func PageIdentifier(req domain.PageRequest, product *domain.Product) string {
	if product != nil && product.ID != 0 {
		return "product_" + strconv.FormatUint(product.ID, 10)
	}

	switch {
	case req.Module == "catalog" && req.Action == "view":
		return "category_" + orUnknown(req.Params["id"])
	case req.Module == "catalogsearch" && req.Action == "index":
		sum := md5.Sum([]byte(req.Params["q"]))
		return "search_" + hex.EncodeToString(sum[:])
	case req.Module == "cms":
		if req.Action == "index" {
			return "cms_home"
		}
		pageID := req.Params["page_id"]
		if pageID == "" {
			pageID = req.Params["id"]
		}
		return "cms_" + orUnknown(pageID)
	}

	return "page_" + req.Module + "_" + req.Action
}

func orUnknown(s string) string {
	if s == "" || s == "0" {
		return "unknown"
	}
	return s
}
