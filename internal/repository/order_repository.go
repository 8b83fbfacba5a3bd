package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"gorm.io/gorm"
)

// ErrStaleStatus reports that an order transition lost to a concurrent
// update; the row no longer holds the status the caller read.
var ErrStaleStatus = errors.New("order status changed concurrently")

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
	ListByTailor(ctx context.Context, tailorID string) ([]model.Order, error)
	// UpdateStatus flips from → to as one conditional write; ErrStaleStatus
	// when the row is not in `from` anymore.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error
	SetDB(db *gorm.DB)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Order
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) ListByTailor(ctx context.Context, tailorID string) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Order
	if err := r.db.WithContext(ctx).
		Where("tailor_id = ?", tailorID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"last_update": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
