package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jpvillanueva/oos-backend/pkg/db"
	"github.com/jpvillanueva/oos-backend/pkg/db/models"
	"github.com/jpvillanueva/oos-backend/pkg/enums"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
)

// openOrderConstraint is the partial unique index guarding the one-open-order
// invariant.
const openOrderConstraint = "orders_one_open_per_user"

type service struct {
	repo     Repository
	tx       txRunner
	delivery deliveryLoader
}

// NewService builds the cart/order engine. The delivery loader may be nil;
// the admin projection then lists orders without contact details.
func NewService(repo Repository, tx txRunner, delivery deliveryLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{repo: repo, tx: tx, delivery: delivery}, nil
}

// AddItem adds a line to the user's open order, creating the order first when
// none exists. A repeat add for the same (name, type, category) tuple
// accumulates quantity on the existing row; its stored price is left alone.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (int64, error) {
	if err := validateAddItem(input); err != nil {
		return 0, err
	}
	paymentMethod := input.PaymentMethod
	if strings.TrimSpace(paymentMethod) == "" {
		paymentMethod = enums.DefaultPaymentMethod
	}

	var orderID int64
	var lastErr error
	// Two attempts: when concurrent first adds race into the open-order
	// index, the loser's transaction aborts on the unique violation and the
	// retry finds the winner's committed row.
	for attempt := 0; attempt < 2; attempt++ {
		lastErr = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			order, err := repo.FindOpenOrder(ctx, input.Username)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				order = &models.Order{
					UserName:      input.Username,
					OrderType:     input.OrderType,
					PaymentMethod: paymentMethod,
					Status:        enums.OrderStatusPending,
					PaymentStatus: enums.PaymentStatusUnpaid,
				}
				if err := repo.CreateOrder(ctx, order); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			orderID = order.ID

			item, err := repo.FindLineItem(ctx, order.ID,
				input.ProductName, input.ProductType, input.ProductCategory)
			if err == nil {
				return repo.SetLineItemQuantity(ctx, item.ID, item.Quantity+input.Quantity)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return repo.CreateLineItem(ctx, &models.OrderItem{
				OrderID:         order.ID,
				ProductName:     input.ProductName,
				ProductType:     input.ProductType,
				ProductCategory: input.ProductCategory,
				Quantity:        input.Quantity,
				Price:           input.Price,
			})
		})
		if lastErr == nil {
			return orderID, nil
		}
		if !db.IsUniqueViolation(lastErr, openOrderConstraint) {
			break
		}
	}

	if typed := pkgerrors.As(lastErr); typed != nil {
		return 0, typed
	}
	return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "add item to cart")
}

// GetCart lists the open order's lines. No open order is an empty cart, not
// an error.
func (s *service) GetCart(ctx context.Context, username string) ([]CartLine, error) {
	if strings.TrimSpace(username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	order, err := s.repo.FindOpenOrder(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []CartLine{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch open order")
	}

	items, err := s.repo.ListLineItems(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch cart items")
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			OrderItemID:     item.ID,
			ProductName:     item.ProductName,
			ProductType:     item.ProductType,
			ProductCategory: item.ProductCategory,
			Quantity:        item.Quantity,
			Price:           item.Price,
			OrderType:       order.OrderType,
			Status:          order.Status,
			CreatedAt:       order.CreatedAt,
		})
	}
	return lines, nil
}

// UpdateQuantity overwrites a line's quantity. A missing id is tolerated as a
// no-op; a non-positive quantity never reaches the store.
func (s *service) UpdateQuantity(ctx context.Context, orderItemID int64, newQuantity int) error {
	if newQuantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.repo.SetLineItemQuantity(ctx, orderItemID, newQuantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item quantity")
	}
	return nil
}

// RemoveItem deletes a line. Deleting an absent id succeeds.
func (s *service) RemoveItem(ctx context.Context, orderItemID int64) error {
	if err := s.repo.DeleteLineItem(ctx, orderItemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return nil
}

// Finalize closes the user's open order. NotFound here means "already
// finalized or never opened"; a second call for the same user fails with it.
func (s *service) Finalize(ctx context.Context, username string) (int64, error) {
	if strings.TrimSpace(username) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	var orderID int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOpenOrder(ctx, username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no pending order found for user %s", username))
		}
		if err != nil {
			return err
		}
		orderID = order.ID
		return repo.CloseOrder(ctx, order.ID)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return 0, typed
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize order")
	}
	return orderID, nil
}

// ManageOrders returns every order with its lines and, when one can be
// matched, the delivery contact.
func (s *service) ManageOrders(ctx context.Context) ([]ManagedOrder, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	var infos []models.DeliveryInfo
	if s.delivery != nil {
		infos, err = s.delivery.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list delivery info")
		}
	}

	managed := make([]ManagedOrder, 0, len(orders))
	for _, order := range orders {
		managed = append(managed, ManagedOrder{
			OrderSummary: summarize(order),
			Items:        snapshotItems(order.Items),
			Delivery:     matchDelivery(infos, order.UserName),
		})
	}
	return managed, nil
}

func (s *service) PendingOrders(ctx context.Context) ([]OrderSummary, error) {
	orders, err := s.repo.ListOrdersByStatus(ctx, enums.OrderStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending orders")
	}
	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, summarize(order))
	}
	return summaries, nil
}

func (s *service) StatusCounts(ctx context.Context) (StatusCounts, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return StatusCounts{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders by status")
	}
	byPayment, err := s.repo.CountByPaymentStatus(ctx)
	if err != nil {
		return StatusCounts{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders by payment status")
	}

	counts := StatusCounts{
		Pending:   byStatus[enums.OrderStatusPending],
		Completed: byStatus[enums.OrderStatusCompleted],
		Cancelled: byStatus[enums.OrderStatusCancelled],
		Unpaid:    byPayment[enums.PaymentStatusUnpaid],
		Paid:      byPayment[enums.PaymentStatusPaid],
	}
	for _, n := range byStatus {
		counts.Total += n
	}
	return counts, nil
}

func (s *service) UserHistory(ctx context.Context, username string) ([]HistoryEntry, error) {
	if strings.TrimSpace(username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	orders, err := s.repo.ListOrdersByUser(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user orders")
	}
	entries := make([]HistoryEntry, 0, len(orders))
	for _, order := range orders {
		entries = append(entries, HistoryEntry{
			OrderSummary: summarize(order),
			Items:        snapshotItems(order.Items),
		})
	}
	return entries, nil
}

func validateAddItem(input AddItemInput) error {
	switch {
	case strings.TrimSpace(input.Username) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	case strings.TrimSpace(input.ProductName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	case strings.TrimSpace(input.OrderType) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "order type is required")
	case input.Quantity <= 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	case input.Price.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return nil
}

func summarize(order models.Order) OrderSummary {
	return OrderSummary{
		OrderID:       order.ID,
		UserName:      order.UserName,
		OrderType:     order.OrderType,
		PaymentMethod: order.PaymentMethod,
		Subtotal:      order.Subtotal,
		DeliveryFee:   order.DeliveryFee,
		TotalAmount:   order.TotalAmount,
		DeliveryNotes: order.DeliveryNotes,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
	}
}

func snapshotItems(items []models.OrderItem) []ItemSnapshot {
	snapshots := make([]ItemSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, ItemSnapshot{
			OrderItemID:     item.ID,
			ProductName:     item.ProductName,
			ProductType:     item.ProductType,
			ProductCategory: item.ProductCategory,
			Quantity:        item.Quantity,
			Price:           item.Price,
		})
	}
	return snapshots
}

// matchDelivery associates a contact record by matching its first name to the
// order's username. The key is almost certainly wrong (order id would be the
// real association) but the admin screen has always rendered it this way.
// TODO: join on order_id once the storefront sends it at checkout.
func matchDelivery(infos []models.DeliveryInfo, username string) *DeliverySnapshot {
	for _, info := range infos {
		if info.FirstName == username {
			return &DeliverySnapshot{
				FirstName:   info.FirstName,
				LastName:    info.LastName,
				Address:     info.Address,
				City:        info.City,
				Province:    info.Province,
				PhoneNumber: info.PhoneNumber,
			}
		}
	}
	return nil
}
