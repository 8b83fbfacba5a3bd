package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type UserService interface {
	// Resolve maps a verified auth identity onto the app's user record:
	// direct UID match first, then phone-number fallback with the UID
	// relinked onto the found record.
	Resolve(ctx context.Context, uid, phone string) (*model.User, error)
	Signup(ctx context.Context, uid, phone, name string, role model.Role) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// cleanPhone keeps the last 10 digits, dropping country prefix and formatting.
func cleanPhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

func (s *userService) Resolve(ctx context.Context, uid, phone string) (*model.User, error) {
	if uid == "" {
		return nil, ErrNotFound
	}
	u, err := s.repo.FindByID(ctx, uid)
	if err == nil {
		if u.Phone == "" && phone != "" {
			u.Phone = cleanPhone(phone)
			_ = s.repo.UpdateFields(ctx, u.ID, map[string]interface{}{"phone": u.Phone})
		}
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	digits := cleanPhone(phone)
	if digits == "" {
		return nil, ErrNotFound
	}
	u, err = s.repo.FindByPhone(ctx, digits)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.ID != uid {
		if err := s.repo.RelinkUID(ctx, u.ID, uid); err != nil {
			return nil, err
		}
		u.ID = uid
	}
	return u, nil
}

func (s *userService) Signup(ctx context.Context, uid, phone, name string, role model.Role) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	digits := cleanPhone(phone)
	if len(digits) < 10 {
		return nil, errors.New("valid 10-digit phone number is required")
	}
	if role != model.RoleCustomer && role != model.RoleTailor {
		return nil, errors.New("invalid role")
	}
	if existing, err := s.repo.FindByID(ctx, uid); err == nil {
		return existing, errors.New("account already exists")
	}

	u := &model.User{
		ID:          uid,
		Role:        role,
		Name:        name,
		Phone:       digits,
		IsAvailable: true,
	}
	if role == model.RoleTailor {
		u.Rating = 4.5
		u.YearsExp = 5
		u.Hours = model.Hours{Open: "10:00", Close: "19:00"}
		u.Skills = model.SkillSet{"Stitching": true, "Alteration": true, "Urgent": false}
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
