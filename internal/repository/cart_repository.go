package repository

import (
	"context"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"gorm.io/gorm"
)

type CartRepository interface {
	// Add upserts on (user, tailor); added reports whether a new row was
	// created, false when the tailor was already in the cart.
	Add(ctx context.Context, item *model.CartItem) (added bool, err error)
	ListByUser(ctx context.Context, userID string) ([]model.CartItem, error)
	Remove(ctx context.Context, userID, tailorID string) error
	Clear(ctx context.Context, userID string) error
	SetDB(db *gorm.DB)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *cartRepository) Add(ctx context.Context, item *model.CartItem) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND tailor_id = ?", item.UserID, item.TailorID).
		FirstOrCreate(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]model.CartItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cartRepository) Remove(ctx context.Context, userID, tailorID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND tailor_id = ?", userID, tailorID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
