package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jpvillanueva/oos-backend/pkg/enums"
)

// AddItemInput carries one add-to-cart request. PaymentMethod is optional and
// defaults to cash; the other fields identify the line and its accumulation.
type AddItemInput struct {
	Username        string
	ProductName     string
	ProductType     string
	ProductCategory string
	Quantity        int
	Price           decimal.Decimal
	OrderType       string
	PaymentMethod   string
}

// CartLine is one open-order line as the storefront renders it.
type CartLine struct {
	OrderItemID     int64             `json:"order_item_id"`
	ProductName     string            `json:"product_name"`
	ProductType     string            `json:"product_type"`
	ProductCategory string            `json:"product_category"`
	Quantity        int               `json:"quantity"`
	Price           decimal.Decimal   `json:"price"`
	OrderType       string            `json:"order_type"`
	Status          enums.OrderStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// OrderSummary is the order-level slice of the admin projections.
type OrderSummary struct {
	OrderID       int64               `json:"order_id"`
	UserName      string              `json:"user_name"`
	OrderType     string              `json:"order_type"`
	PaymentMethod string              `json:"payment_method"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	DeliveryNotes string              `json:"delivery_notes"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ItemSnapshot is one line within an admin projection.
type ItemSnapshot struct {
	OrderItemID     int64           `json:"order_item_id"`
	ProductName     string          `json:"product_name"`
	ProductType     string          `json:"product_type"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
}

// DeliverySnapshot is the contact record attached to a managed order, when one
// could be matched.
type DeliverySnapshot struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PhoneNumber string `json:"phone_number"`
}

// ManagedOrder is the full order+items+delivery row the admin screen lists.
type ManagedOrder struct {
	OrderSummary
	Items    []ItemSnapshot    `json:"items"`
	Delivery *DeliverySnapshot `json:"delivery_info,omitempty"`
}

// HistoryEntry groups a past order with its lines for the per-user history
// view.
type HistoryEntry struct {
	OrderSummary
	Items []ItemSnapshot `json:"items"`
}

// StatusCounts aggregates order counts for the admin dashboard.
type StatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Unpaid    int64 `json:"unpaid"`
	Paid      int64 `json:"paid"`
}
