package payment

import "github.com/shopspring/decimal"

// CartItemPayload is one line from the checkout payload, forwarded to the
// ordering service's add-to-cart endpoint.
type CartItemPayload struct {
	ProductID       *int64          `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name"`
	ProductType     string          `json:"product_type"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
}

// DeliveryInfoPayload mirrors the ordering service's delivery info contract.
type DeliveryInfoPayload struct {
	FirstName    string  `json:"first_name"`
	MiddleName   *string `json:"middle_name,omitempty"`
	LastName     string  `json:"last_name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Province     string  `json:"province"`
	Landmark     *string `json:"landmark,omitempty"`
	EmailAddress *string `json:"email_address,omitempty"`
	PhoneNumber  string  `json:"phone_number"`
	Notes        *string `json:"notes,omitempty"`
}

// ConfirmPaymentInput is the checkout the orchestrator runs through the saga.
// Subtotal, DeliveryFee, and Total are the storefront's display figures; the
// ordering service derives its own totals and these are not forwarded. Notes
// fills the delivery record's notes when that record carries none.
type ConfirmPaymentInput struct {
	Username      string
	OrderType     string
	PaymentMethod string
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	CartItems     []CartItemPayload
	DeliveryInfo  *DeliveryInfoPayload
}

// addToCartRequest is the wire shape of the ordering service's POST /cart.
type addToCartRequest struct {
	Username        string          `json:"username"`
	ProductID       *int64          `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name"`
	ProductType     string          `json:"product_type"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	OrderType       string          `json:"order_type"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
}
