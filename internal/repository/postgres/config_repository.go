package postgres

import (
	"context"
	"errors"
	"fmt"
	"productInfoAgent/business/settings"
	"productInfoAgent/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository struct {
	DB *gorm.DB
}

var _ settings.ConfigRepository = (*ConfigRepository)(nil)

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{DB: db}
}

func (r *ConfigRepository) GetValue(ctx context.Context, scope string, scopeID uint64, path string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("context error: %w", err)
	}

	var row domain.ConfigValue
	err := r.DB.WithContext(ctx).
		Where("scope = ? AND scope_id = ? AND path = ?", scope, scopeID, path).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return row.Value, true, nil
}

func (r *ConfigRepository) UpsertValue(ctx context.Context, value domain.ConfigValue) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "scope_id"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&value).Error
}

func (r *ConfigRepository) ListValues(ctx context.Context, scope string, scopeID uint64) ([]domain.ConfigValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var values []domain.ConfigValue
	err := r.DB.WithContext(ctx).
		Where("scope = ? AND scope_id = ?", scope, scopeID).
		Order("path ASC").
		Find(&values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list config values: %w", err)
	}

	return values, nil
}
