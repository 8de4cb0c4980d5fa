package delivery

import (
	"context"

	"gorm.io/gorm"

	"github.com/jpvillanueva/oos-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed delivery info repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, info *models.DeliveryInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *repository) FindByOrderID(ctx context.Context, orderID int64) (*models.DeliveryInfo, error) {
	var info models.DeliveryInfo
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.DeliveryInfo, error) {
	var infos []models.DeliveryInfo
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&infos).Error
	if err != nil {
		return nil, err
	}
	return infos, nil
}
