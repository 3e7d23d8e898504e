package postgres

import (
	"context"
	"errors"
	"fmt"
	"productInfoAgent/business/suggestion"
	"productInfoAgent/domain"

	"gorm.io/gorm"
)

type SuggestionViewRepository struct {
	DB *gorm.DB
}

var _ suggestion.ViewRepository = (*SuggestionViewRepository)(nil)

func NewSuggestionViewRepository(db *gorm.DB) *SuggestionViewRepository {
	return &SuggestionViewRepository{DB: db}
}

// byIdentity scopes a query to one identity. Guest lookups also require a
// NULL customer so they never match a logged-in record with the same session.
func byIdentity(db *gorm.DB, productID uint64, identity domain.Identity) *gorm.DB {
	db = db.Where("product_id = ?", productID)
	if identity.CustomerID != nil {
		return db.Where("customer_id = ?", *identity.CustomerID)
	}
	return db.Where("session_id = ? AND customer_id IS NULL", identity.SessionID)
}

func (r *SuggestionViewRepository) FindView(ctx context.Context, productID uint64, identity domain.Identity) (*domain.SuggestionView, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var view domain.SuggestionView
	err := byIdentity(r.DB.WithContext(ctx), productID, identity).
		Order("id ASC").
		First(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query agent_suggestion_views: %w", err)
	}

	return &view, nil
}

// SaveView inserts a new record or updates the existing one by id.
func (r *SuggestionViewRepository) SaveView(ctx context.Context, view *domain.SuggestionView) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Save(view).Error; err != nil {
		return fmt.Errorf("failed to save suggestion view: %w", err)
	}

	return nil
}

func (r *SuggestionViewRepository) DeleteView(ctx context.Context, productID uint64, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := byIdentity(r.DB.WithContext(ctx), productID, identity).
		Delete(&domain.SuggestionView{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete suggestion view: %w", err)
	}

	return nil
}
