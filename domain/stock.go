package domain

type StockItem struct {
	ProductID uint64  `gorm:"column:product_id;primaryKey" json:"product_id"`
	Qty       float64 `gorm:"column:qty;type:numeric" json:"qty"`
	IsInStock bool    `gorm:"column:is_in_stock" json:"is_in_stock"`
	MinQty    float64 `gorm:"column:min_qty;type:numeric" json:"min_qty"`
}

func (StockItem) TableName() string {
	return "stock_items"
}
