package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/jpvillanueva/oos-backend/pkg/db/models"
	"github.com/jpvillanueva/oos-backend/pkg/enums"
)

// Repository is the order store surface the cart engine drives. Open-order
// lookups honor the configured open predicate; see NewRepository.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOpenOrder(ctx context.Context, username string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CloseOrder(ctx context.Context, orderID int64) error

	FindLineItem(ctx context.Context, orderID int64, name, productType, productCategory string) (*models.OrderItem, error)
	CreateLineItem(ctx context.Context, item *models.OrderItem) error
	SetLineItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteLineItem(ctx context.Context, itemID int64) error
	ListLineItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)

	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, username string) ([]models.Order, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	CountByPaymentStatus(ctx context.Context) (map[enums.PaymentStatus]int64, error)
}

// Service is the cart/order engine.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (int64, error)
	GetCart(ctx context.Context, username string) ([]CartLine, error)
	UpdateQuantity(ctx context.Context, orderItemID int64, newQuantity int) error
	RemoveItem(ctx context.Context, orderItemID int64) error
	Finalize(ctx context.Context, username string) (int64, error)

	ManageOrders(ctx context.Context) ([]ManagedOrder, error)
	PendingOrders(ctx context.Context) ([]OrderSummary, error)
	StatusCounts(ctx context.Context) (StatusCounts, error)
	UserHistory(ctx context.Context, username string) ([]HistoryEntry, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// deliveryLoader is the slice of the delivery store the admin projection
// joins against.
type deliveryLoader interface {
	ListAll(ctx context.Context) ([]models.DeliveryInfo, error)
}
