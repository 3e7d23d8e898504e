package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.products (
//     id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     sku               TEXT,
//     name              TEXT,
//     type_id           TEXT DEFAULT 'simple',
//     description       TEXT,
//     short_description TEXT,
//     weight            NUMERIC,
//     price             NUMERIC,
//     attributes        JSONB,
//     created_at        TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID               uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU              string            `gorm:"column:sku;type:text" json:"sku"`
	Name             string            `gorm:"column:name;type:text" json:"name"`
	TypeID           string            `gorm:"column:type_id;type:text" json:"type_id"`
	Description      string            `gorm:"column:description;type:text" json:"description"`
	ShortDescription string            `gorm:"column:short_description;type:text" json:"short_description"`
	Weight           float64           `gorm:"column:weight;type:numeric" json:"weight"`
	Price            float64           `gorm:"column:price;type:numeric" json:"price"`
	Attributes       datatypes.JSONMap `gorm:"column:attributes" json:"attributes"`
	CreatedAt        time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// AttributeValue resolves an attribute code against the built-in columns
// first and the free-form attributes map second.
func (p Product) AttributeValue(code string) (any, bool) {
	switch code {
	case "entity_id", "id":
		return p.ID, true
	case "sku":
		return p.SKU, true
	case "name":
		return p.Name, true
	case "type_id":
		return p.TypeID, true
	case "description":
		return p.Description, true
	case "short_description":
		return p.ShortDescription, true
	case "weight":
		return p.Weight, true
	case "price":
		return p.Price, true
	}

	if p.Attributes == nil {
		return nil, false
	}
	v, ok := p.Attributes[code]
	return v, ok
}
