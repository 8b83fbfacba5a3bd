package repository

import (
	"context"
	"errors"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	ListTailors(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	RelinkUID(ctx context.Context, oldID, newID string) error
	SetChatting(ctx context.Context, id string, active bool) error
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var u model.User
	if err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ListTailors(ctx context.Context) ([]model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", model.RoleTailor).
		Order("rating DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// RelinkUID moves a user record onto the auth UID that just verified. Used
// when a signup row was keyed by phone before the first OTP login.
func (r *userRepository) RelinkUID(ctx context.Context, oldID, newID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", oldID).
		Update("id", newID).Error
}

func (r *userRepository) SetChatting(ctx context.Context, id string, active bool) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_currently_chatting", active).Error
}
