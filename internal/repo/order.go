package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/models"
)

var ErrStatusConflict = errors.New("order status changed concurrently")

type OrderRepo struct {
	DB *gorm.DB
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) List(ctx context.Context, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepo) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) FindStalePending(ctx context.Context, before time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.OrderStatusPending, before).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order to newStatus only if its version column still
// matches; a concurrent writer wins the row and the loser gets
// ErrStatusConflict instead of silently overwriting.
func (r *OrderRepo) UpdateStatus(ctx context.Context, order *models.Order, newStatus models.OrderStatus) error {
	now := time.Now()
	result := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":     newStatus,
			"version":    order.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	order.Status = newStatus
	order.Version++
	order.UpdatedAt = now
	return nil
}
