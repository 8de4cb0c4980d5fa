package enums

// OrderStatus tracks the lifecycle column on orders.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// PaymentStatus tracks settlement on orders when the payment-status schema
// variant is active.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"
)

// Order types are opaque strings in the wire contract; these are the values
// the storefront sends today.
const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

const DefaultPaymentMethod = "Cash"

// Roles recognized by the identity oracle.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)
