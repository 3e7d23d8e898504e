package postgres

import (
	"context"
	"errors"
	"fmt"
	"productInfoAgent/business/rules"
	"productInfoAgent/business/suggestion"
	"productInfoAgent/domain"

	"gorm.io/gorm"
)

// CatalogRepository reads products, category membership and stock.
type CatalogRepository struct {
	DB *gorm.DB
}

var (
	_ rules.CatalogRepository      = (*CatalogRepository)(nil)
	_ suggestion.ProductRepository = (*CatalogRepository)(nil)
)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id uint64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *CatalogRepository) CountCategoryProducts(ctx context.Context, categoryID uint64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.CategoryProduct{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count category products: %w", err)
	}

	return count, nil
}

func (r *CatalogRepository) GetStockItem(ctx context.Context, productID uint64) (domain.StockItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.StockItem{}, fmt.Errorf("context error: %w", err)
	}

	var item domain.StockItem
	err := r.DB.WithContext(ctx).First(&item, "product_id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.StockItem{}, domain.ErrStockItemNotFound
		}
		return domain.StockItem{}, fmt.Errorf("failed to find stock item: %w", err)
	}

	return item, nil
}
