package suggestion

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"productInfoAgent/domain"
	"productInfoAgent/pkg/logger"
	"slices"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
)

// ---- Repository interfaces ----

type SuggestionRepository interface {
	// FindActiveByProduct orders by priority ASC, created_at DESC.
	FindActiveByProduct(ctx context.Context, productID uint64) ([]domain.Suggestion, error)
	Create(ctx context.Context, suggestion *domain.Suggestion) error
	DeleteByProduct(ctx context.Context, productID uint64) error
}

type ViewRepository interface {
	// FindView returns nil, nil when the identity has no record for the product.
	FindView(ctx context.Context, productID uint64, identity domain.Identity) (*domain.SuggestionView, error)
	SaveView(ctx context.Context, view *domain.SuggestionView) error
	DeleteView(ctx context.Context, productID uint64, identity domain.Identity) error
}

type ProductRepository interface {
	FindProductByID(ctx context.Context, id uint64) (domain.Product, error)
}

type SettingsProvider interface {
	SmartRotationEnabled(ctx context.Context) (bool, error)
	RandomizeEnabled(ctx context.Context) (bool, error)
	SuggestionsPerLoad(ctx context.Context) (int, error)
	CacheLifetimeDays(ctx context.Context) (int, error)
}

type suggestionService struct {
	suggestionRepo SuggestionRepository
	viewRepo       ViewRepository
	productRepo    ProductRepository
	settings       SettingsProvider

	group   singleflight.Group
	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

func NewSuggestionService(
	suggestionRepo SuggestionRepository,
	viewRepo ViewRepository,
	productRepo ProductRepository,
	settings SettingsProvider,
) *suggestionService {
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		viewRepo:       viewRepo,
		productRepo:    productRepo,
		settings:       settings,
		now:            time.Now,
		shuffle:        rand.Shuffle,
	}
}

// GetSuggestions returns up to the configured number of questions for a
// product, ordered for the given identity.
func (s *suggestionService) GetSuggestions(ctx context.Context, productID uint64, identity domain.Identity) ([]string, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get suggestions", "error", err)
		return nil, fmt.Errorf("context error: %w", err)
	}

	items, err := s.resolve(ctx, productID)
	if err != nil {
		logger.Error("Failed to resolve suggestions", "product_id", productID, "error", err)
		return nil, err
	}
	if len(items) == 0 {
		return []string{}, nil
	}

	smart, err := s.settings.SmartRotationEnabled(ctx)
	if err != nil {
		logger.Warn("suggestion_setting_read_failed", "setting", "smart_rotation", "error", err)
	}
	randomize, err := s.settings.RandomizeEnabled(ctx)
	if err != nil {
		logger.Warn("suggestion_setting_read_failed", "setting", "randomize", "error", err)
	}
	perLoad, err := s.settings.SuggestionsPerLoad(ctx)
	if err != nil {
		logger.Warn("suggestion_setting_read_failed", "setting", "per_load", "error", err)
	}

	active := items
	if smart {
		items = s.rotate(ctx, productID, identity, items)
	}

	if randomize {
		items = slices.Clone(items)
		seededShuffle(items, hourSeed(identity.SessionID, s.now()))
	}

	if perLoad > 0 && len(items) > perLoad {
		items = items[:perLoad]
	}

	if smart {
		s.trackViewed(ctx, productID, identity, items, active)
	}

	questions := make([]string, 0, len(items))
	for _, it := range items {
		questions = append(questions, it.Question)
	}

	logger.Debug("suggestions_served",
		"product_id", productID,
		"identity", identity.String(),
		"count", len(questions),
		"smart_rotation", smart,
		"randomize", randomize,
	)

	return questions, nil
}

// Invalidate drops the product's persisted suggestions so the next load
// regenerates them.
func (s *suggestionService) Invalidate(ctx context.Context, productID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if productID == 0 {
		return errors.New("invalid product id")
	}

	if err := s.suggestionRepo.DeleteByProduct(ctx, productID); err != nil {
		logger.Error("Failed to delete suggestions", "product_id", productID, "error", err)
		return err
	}
	s.group.Forget(flightKey(productID))

	logger.Info("suggestions_invalidated", "product_id", productID)
	return nil
}

func flightKey(productID uint64) string {
	return strconv.FormatUint(productID, 10)
}

// resolve loads the active set or regenerates it. Concurrent callers for the
// same product in this process share one load, detached from the
// cancellation of whichever caller started it.
func (s *suggestionService) resolve(ctx context.Context, productID uint64) ([]domain.Suggestion, error) {
	v, err, _ := s.group.Do(flightKey(productID), func() (any, error) {
		return s.loadOrGenerate(context.WithoutCancel(ctx), productID)
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(v.([]domain.Suggestion)), nil
}

func (s *suggestionService) loadOrGenerate(ctx context.Context, productID uint64) ([]domain.Suggestion, error) {
	rows, err := s.suggestionRepo.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find active suggestions: %w", err)
	}

	if len(rows) > 0 {
		lifetime, err := s.settings.CacheLifetimeDays(ctx)
		if err != nil {
			logger.Warn("suggestion_setting_read_failed", "setting", "cache_lifetime", "error", err)
		}

		if age := ageDays(rows, s.now()); age <= lifetime {
			SuggestionCacheTotal.WithLabelValues("hit").Inc()
			logger.Debug("suggestion_cache_hit", "product_id", productID, "age_days", age, "count", len(rows))
			return rows, nil
		}

		SuggestionCacheTotal.WithLabelValues("expired").Inc()
		if err := s.suggestionRepo.DeleteByProduct(ctx, productID); err != nil {
			return nil, fmt.Errorf("delete expired suggestions: %w", err)
		}
		logger.Debug("suggestion_cache_expired", "product_id", productID, "deleted", len(rows))
	} else {
		SuggestionCacheTotal.WithLabelValues("miss").Inc()
	}

	return s.generate(ctx, productID), nil
}

// ageDays is the age in whole days of the oldest row.
func ageDays(rows []domain.Suggestion, now time.Time) int {
	oldest := rows[0].CreatedAt
	for _, r := range rows[1:] {
		if r.CreatedAt.Before(oldest) {
			oldest = r.CreatedAt
		}
	}
	return int(now.Sub(oldest) / (24 * time.Hour))
}

// generate builds and persists a fresh set. Rows that fail to save are left
// out; a missing product yields an empty set.
func (s *suggestionService) generate(ctx context.Context, productID uint64) []domain.Suggestion {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		logger.Warn("suggestion_product_lookup_failed", "product_id", productID, "error", err)
		return []domain.Suggestion{}
	}

	questions := buildQuestions(product, s.shuffle)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Priority < questions[j].Priority
	})

	saved := make([]domain.Suggestion, 0, len(questions))
	for _, q := range questions {
		row := domain.Suggestion{
			ProductID: productID,
			Question:  q.Text,
			Priority:  q.Priority,
			IsActive:  true,
			CreatedAt: s.now().UTC(),
		}
		if err := s.suggestionRepo.Create(ctx, &row); err != nil {
			SuggestionWriteFailuresTotal.WithLabelValues("suggestion").Inc()
			logger.Warn("suggestion_save_failed", "product_id", productID, "priority", q.Priority, "error", err)
			continue
		}
		saved = append(saved, row)
	}

	logger.Debug("suggestions_generated", "product_id", productID, "count", len(saved))
	return saved
}

// rotate puts suggestions the identity has not seen first. Once everything
// has been seen the view record is cleared and the list reshuffled.
func (s *suggestionService) rotate(ctx context.Context, productID uint64, identity domain.Identity, items []domain.Suggestion) []domain.Suggestion {
	if !identity.Valid() {
		return items
	}

	seen := s.viewedSet(ctx, productID, identity)

	unviewed := make([]domain.Suggestion, 0, len(items))
	viewed := make([]domain.Suggestion, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			viewed = append(viewed, it)
		} else {
			unviewed = append(unviewed, it)
		}
	}

	rotated := append(unviewed, viewed...)

	if len(unviewed) == 0 && len(viewed) > 0 {
		if err := s.viewRepo.DeleteView(ctx, productID, identity); err != nil {
			SuggestionWriteFailuresTotal.WithLabelValues("view").Inc()
			logger.Warn("suggestion_view_reset_failed", "product_id", productID, "identity", identity.String(), "error", err)
		}
		RotationResetsTotal.Inc()
		s.shuffle(len(rotated), func(i, j int) { rotated[i], rotated[j] = rotated[j], rotated[i] })
	}

	return rotated
}

func (s *suggestionService) viewedSet(ctx context.Context, productID uint64, identity domain.Identity) map[uint64]bool {
	seen := map[uint64]bool{}

	view, err := s.viewRepo.FindView(ctx, productID, identity)
	if err != nil {
		logger.Warn("suggestion_view_read_failed", "product_id", productID, "identity", identity.String(), "error", err)
		return seen
	}
	if view == nil {
		return seen
	}

	ids, err := view.ViewedIDs()
	if err != nil {
		logger.Warn("suggestion_view_decode_failed", "view_id", view.ID, "error", err)
		return seen
	}
	for _, id := range ids {
		seen[id] = true
	}
	return seen
}

// trackViewed merges the shown ids into the identity's view record. Ids that
// are no longer active are dropped. Failures are logged and swallowed.
func (s *suggestionService) trackViewed(
	ctx context.Context,
	productID uint64,
	identity domain.Identity,
	shown []domain.Suggestion,
	active []domain.Suggestion,
) {
	if !identity.Valid() || len(shown) == 0 {
		return
	}

	view, err := s.viewRepo.FindView(ctx, productID, identity)
	if err != nil {
		SuggestionWriteFailuresTotal.WithLabelValues("view").Inc()
		logger.Warn("suggestion_view_read_failed", "product_id", productID, "identity", identity.String(), "error", err)
		return
	}
	if view == nil {
		view = &domain.SuggestionView{
			ProductID:  productID,
			CustomerID: identity.CustomerID,
			SessionID:  identity.SessionID,
		}
	}

	activeIDs := make(map[uint64]bool, len(active))
	for _, a := range active {
		activeIDs[a.ID] = true
	}

	existing, err := view.ViewedIDs()
	if err != nil {
		existing = nil
	}

	merged := make([]uint64, 0, len(existing)+len(shown))
	present := map[uint64]bool{}
	for _, id := range existing {
		if activeIDs[id] && !present[id] {
			merged = append(merged, id)
			present[id] = true
		}
	}
	for _, it := range shown {
		if !present[it.ID] {
			merged = append(merged, it.ID)
			present[it.ID] = true
		}
	}

	if err := view.SetViewedIDs(merged); err != nil {
		logger.Warn("suggestion_view_encode_failed", "product_id", productID, "error", err)
		return
	}

	if err := s.viewRepo.SaveView(ctx, view); err != nil {
		SuggestionWriteFailuresTotal.WithLabelValues("view").Inc()
		logger.Warn("suggestion_view_save_failed", "product_id", productID, "identity", identity.String(), "error", err)
	}
}
