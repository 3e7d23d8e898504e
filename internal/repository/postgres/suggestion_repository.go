package postgres

import (
	"context"
	"fmt"
	"productInfoAgent/business/suggestion"
	"productInfoAgent/domain"

	"gorm.io/gorm"
)

type SuggestionRepository struct {
	DB *gorm.DB
}

var _ suggestion.SuggestionRepository = (*SuggestionRepository)(nil)

func NewSuggestionRepository(db *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{DB: db}
}

func (r *SuggestionRepository) FindActiveByProduct(ctx context.Context, productID uint64) ([]domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.Suggestion
	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("priority ASC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query agent_suggestions: %w", err)
	}

	return rows, nil
}

func (r *SuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to save suggestion: %w", err)
	}

	return nil
}

func (r *SuggestionRepository) DeleteByProduct(ctx context.Context, productID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&domain.Suggestion{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete suggestions: %w", err)
	}

	return nil
}
