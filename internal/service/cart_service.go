package service

import (
	"context"
	"errors"

	"github.com/Devam759/StitchUp-Firebase/internal/eventbus"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
	"gorm.io/gorm"
)

type CartService interface {
	// Add snapshots the tailor's card into the cart; adding a tailor that is
	// already there is a no-op.
	Add(ctx context.Context, user *model.User, tailorID string) (*model.CartItem, error)
	List(ctx context.Context, userID string) ([]model.CartItem, error)
	Remove(ctx context.Context, userID, tailorID string) error
	Clear(ctx context.Context, userID string) error
}

type cartService struct {
	cartRepo repository.CartRepository
	userRepo repository.UserRepository
	bus      *eventbus.Bus
}

func NewCartService(cartRepo repository.CartRepository, userRepo repository.UserRepository, bus *eventbus.Bus) CartService {
	return &cartService{cartRepo: cartRepo, userRepo: userRepo, bus: bus}
}

func (s *cartService) Add(ctx context.Context, user *model.User, tailorID string) (*model.CartItem, error) {
	tailor, err := s.userRepo.FindByID(ctx, tailorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	item := &model.CartItem{
		UserID:      user.ID,
		TailorID:    tailor.ID,
		TailorName:  tailor.Name,
		TailorImage: tailor.ShopPhotoURL,
		PriceFrom:   tailor.PriceFrom,
		DistanceKm:  tailor.DistanceKm,
		Rating:      tailor.Rating,
	}
	added, err := s.cartRepo.Add(ctx, item)
	if err != nil {
		return nil, err
	}
	if added {
		s.bus.Publish(eventbus.Event{Topic: eventbus.TopicCartUpdated, Payload: user.ID})
	}
	return item, nil
}

func (s *cartService) List(ctx context.Context, userID string) ([]model.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

func (s *cartService) Remove(ctx context.Context, userID, tailorID string) error {
	if err := s.cartRepo.Remove(ctx, userID, tailorID); err != nil {
		return err
	}
	s.bus.Publish(eventbus.Event{Topic: eventbus.TopicCartUpdated, Payload: userID})
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return err
	}
	s.bus.Publish(eventbus.Event{Topic: eventbus.TopicCartUpdated, Payload: userID})
	return nil
}
