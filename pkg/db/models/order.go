package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jpvillanueva/oos-backend/pkg/enums"
)

// Order is the per-user order row driving the cart state machine. At most one
// row per user may satisfy the open predicate at any time; the partial unique
// index orders_one_open_per_user enforces that at the store level.
type Order struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserName      string              `gorm:"column:user_name;not null;index"`
	OrderType     string              `gorm:"column:order_type;not null"`
	PaymentMethod string              `gorm:"column:payment_method;not null;default:'Cash'"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryFee   decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	DeliveryNotes string              `gorm:"column:delivery_notes;not null;default:''"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'Pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'Unpaid'"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }
