package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/models"
)

// CreateOrder stores the order with its items and empties the user's cart in
// the same transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
}

// ListOrders returns the user's orders, newest first.
func (r *GormRepo) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves the order from one status to another. It fails with
// ErrStatusChanged when the stored status is no longer from.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id int64, from, to string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusChanged
		}
		return tx.Preload("Items").First(&order, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
