package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
	"gorm.io/gorm"
)

type RateCardUpdate struct {
	Pricing model.PricingMap
	Hours   model.Hours
	Skills  model.SkillSet
	KYC     model.KYC
}

type ProfileUpdate struct {
	Name     *string
	Address  *string
	About    *string
	YearsExp *int
}

type TailorService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	UpdateRateCard(ctx context.Context, tailorID string, upd RateCardUpdate) error
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error
	SetAvailability(ctx context.Context, tailorID string, available bool) error
	SetPresence(ctx context.Context, tailorID string, active bool) error
	SetBanner(ctx context.Context, tailorID, url string) error
}

type tailorService struct {
	repo repository.UserRepository
}

func NewTailorService(repo repository.UserRepository) TailorService {
	return &tailorService{repo: repo}
}

func (s *tailorService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.ListTailors(ctx)
}

func (s *tailorService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.Role != model.RoleTailor {
		return nil, ErrNotFound
	}
	return u, nil
}

// UpdateRateCard saves the pricing matrix and recomputes priceFrom as the
// cheapest listed service. Unpriced entries are dropped.
func (s *tailorService) UpdateRateCard(ctx context.Context, tailorID string, upd RateCardUpdate) error {
	pricing := model.PricingMap{}
	priceFrom := 0
	for name, price := range upd.Pricing {
		if price <= 0 {
			continue
		}
		pricing[name] = price
		if priceFrom == 0 || price < priceFrom {
			priceFrom = price
		}
	}
	return s.repo.UpdateFields(ctx, tailorID, map[string]interface{}{
		"pricing":    pricing,
		"price_from": priceFrom,
		"hours":      upd.Hours,
		"skills":     upd.Skills,
		"kyc":        upd.KYC,
	})
}

func (s *tailorService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		fields["name"] = name
	}
	if upd.Address != nil {
		fields["address"] = *upd.Address
	}
	if upd.About != nil {
		fields["about"] = *upd.About
	}
	if upd.YearsExp != nil {
		fields["years_exp"] = *upd.YearsExp
	}
	if len(fields) == 0 {
		return nil
	}
	return s.repo.UpdateFields(ctx, userID, fields)
}

func (s *tailorService) SetAvailability(ctx context.Context, tailorID string, available bool) error {
	return s.repo.UpdateFields(ctx, tailorID, map[string]interface{}{"is_available": available})
}

// SetPresence flips the advisory "currently viewing a conversation" flag.
// Best effort only; it is not a lock and carries no expiry.
func (s *tailorService) SetPresence(ctx context.Context, tailorID string, active bool) error {
	return s.repo.SetChatting(ctx, tailorID, active)
}

func (s *tailorService) SetBanner(ctx context.Context, tailorID, url string) error {
	return s.repo.UpdateFields(ctx, tailorID, map[string]interface{}{"banner_url": url})
}
