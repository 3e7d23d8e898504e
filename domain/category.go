package domain

import (
	"time"
)

// CREATE TABLE public.categories (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name        TEXT NOT NULL,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Category struct {
	ID        uint64    `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryProduct links a product to a category.
type CategoryProduct struct {
	CategoryID uint64 `gorm:"column:category_id;primaryKey"`
	ProductID  uint64 `gorm:"column:product_id;primaryKey"`
}

func (CategoryProduct) TableName() string {
	return "category_products"
}
