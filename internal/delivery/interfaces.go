package delivery

import (
	"context"

	"gorm.io/gorm"

	"github.com/jpvillanueva/oos-backend/pkg/db/models"
)

// Repository persists delivery contact records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, info *models.DeliveryInfo) error
	FindByOrderID(ctx context.Context, orderID int64) (*models.DeliveryInfo, error)
	ListAll(ctx context.Context) ([]models.DeliveryInfo, error)
}

// Service exposes delivery info capture and lookup.
type Service interface {
	Save(ctx context.Context, input SaveInput) (*models.DeliveryInfo, error)
	GetByOrderID(ctx context.Context, orderID int64) (*models.DeliveryInfo, error)
}
