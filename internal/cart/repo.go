package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/jpvillanueva/oos-backend/pkg/db/models"
	"github.com/jpvillanueva/oos-backend/pkg/enums"
)

type repository struct {
	db           *gorm.DB
	trackPayment bool
}

// NewRepository builds a gorm-backed order store. trackPaymentStatus selects
// the open predicate: when enabled, open means Status=Pending and
// PaymentStatus=Unpaid and finalize flips PaymentStatus to Paid; when
// disabled, open means Status=Pending alone and finalize leaves the row as-is
// (the legacy single-status schema).
func NewRepository(db *gorm.DB, trackPaymentStatus bool) Repository {
	return &repository{db: db, trackPayment: trackPaymentStatus}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx, trackPayment: r.trackPayment}
}

func (r *repository) openScope(q *gorm.DB) *gorm.DB {
	q = q.Where("status = ?", enums.OrderStatusPending)
	if r.trackPayment {
		q = q.Where("payment_status = ?", enums.PaymentStatusUnpaid)
	}
	return q
}

// FindOpenOrder returns the user's most recent open order. Ties on created_at
// break by id so the winner is stable across reads.
func (r *repository) FindOpenOrder(ctx context.Context, username string) (*models.Order, error) {
	var order models.Order
	err := r.openScope(r.db.WithContext(ctx).Where("user_name = ?", username)).
		Order("created_at DESC, id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CloseOrder(ctx context.Context, orderID int64) error {
	update := map[string]any{"payment_status": enums.PaymentStatusPaid}
	if !r.trackPayment {
		// Legacy schema parity: finalize rewrites Status with its current
		// value instead of recording settlement.
		update = map[string]any{"status": enums.OrderStatusPending}
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(update).Error
}

func (r *repository) FindLineItem(ctx context.Context, orderID int64, name, productType, productCategory string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_name = ? AND product_type = ? AND product_category = ?",
			orderID, name, productType, productCategory).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateLineItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetLineItemQuantity overwrites the quantity on a line. A missing id is a
// silent no-op, matching the permissive update contract.
func (r *repository) SetLineItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteLineItem(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) ListLineItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func withItems(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

func (r *repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(r.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListOrdersByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListOrdersByUser(ctx context.Context, username string) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("user_name = ?", username).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

type statusCountRow struct {
	Status string
	Count  int64
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status AS status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[enums.OrderStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *repository) CountByPaymentStatus(ctx context.Context) (map[enums.PaymentStatus]int64, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("payment_status AS status, COUNT(*) AS count").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.PaymentStatus]int64, len(rows))
	for _, row := range rows {
		counts[enums.PaymentStatus(row.Status)] = row.Count
	}
	return counts, nil
}
