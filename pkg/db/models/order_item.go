package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line within an order. The (order_id, product_name,
// product_type, product_category) tuple is unique; repeat adds accumulate
// quantity on the existing row. Price is written once at insert and is never
// reconciled on accumulation.
type OrderItem struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID         int64           `gorm:"column:order_id;not null;index"`
	ProductName     string          `gorm:"column:product_name;not null"`
	ProductType     string          `gorm:"column:product_type;not null;default:''"`
	ProductCategory string          `gorm:"column:product_category;not null;default:''"`
	Quantity        int             `gorm:"column:quantity;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }
