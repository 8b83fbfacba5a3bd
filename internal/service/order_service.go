package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Devam759/StitchUp-Firebase/internal/eventbus"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
	"gorm.io/gorm"
)

type OrderService interface {
	ListForUser(ctx context.Context, user *model.User) ([]model.Order, error)
	UpdateStatus(ctx context.Context, user *model.User, orderID string, status model.OrderStatus) (*model.Order, error)
	Dashboard(ctx context.Context, tailor *model.User) (*DashboardStats, error)
}

type DashboardStats struct {
	OrdersToday   int           `json:"ordersToday"`
	EarningsToday int           `json:"earningsToday"`
	Rating        float64       `json:"rating"`
	Reviews       int           `json:"reviews"`
	RecentOrders  []model.Order `json:"recentOrders"`
}

type orderService struct {
	orderRepo repository.OrderRepository
	enqRepo   repository.EnquiryRepository
	bus       *eventbus.Bus
}

func NewOrderService(orderRepo repository.OrderRepository, enqRepo repository.EnquiryRepository, bus *eventbus.Bus) OrderService {
	return &orderService{orderRepo: orderRepo, enqRepo: enqRepo, bus: bus}
}

func (s *orderService) ListForUser(ctx context.Context, user *model.User) ([]model.Order, error) {
	if user.Role == model.RoleTailor {
		return s.orderRepo.ListByTailor(ctx, user.ID)
	}
	return s.orderRepo.ListByCustomer(ctx, user.ID)
}

// UpdateStatus advances the order lifecycle: the tailor marks working orders
// ready, the customer closes ready orders as satisfied or not satisfied.
func (s *orderService) UpdateStatus(ctx context.Context, user *model.User, orderID string, status model.OrderStatus) (*model.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var note string
	switch status {
	case model.OrderStatusReady:
		if o.TailorID != user.ID {
			return nil, ErrForbidden
		}
		if o.Status != model.OrderStatusWorking {
			return nil, fmt.Errorf("cannot move order from %s to %s", o.Status, status)
		}
		note = fmt.Sprintf("Your order %s is ready! Contact %s for pickup.", o.ID, o.TailorName)
	case model.OrderStatusSatisfied, model.OrderStatusNotSatisfied:
		if o.CustomerID != user.ID {
			return nil, ErrForbidden
		}
		if o.Status != model.OrderStatusReady {
			return nil, fmt.Errorf("cannot move order from %s to %s", o.Status, status)
		}
		note = fmt.Sprintf("Order %s closed: %s.", o.ID, status)
	default:
		return nil, fmt.Errorf("unsupported status %q", status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, o.ID, o.Status, status); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, fmt.Errorf("cannot move order from %s to %s", o.Status, status)
		}
		return nil, err
	}
	o.Status = status
	o.LastUpdate = time.Now()

	// Best-effort: the thread note never fails the status change.
	key := model.ThreadKey(o.CustomerID, o.TailorID)
	_ = s.enqRepo.AppendMessage(ctx, key, model.NewSystemMessage(note, o.ID))

	s.bus.Publish(eventbus.Event{Topic: eventbus.TopicOrderUpdated, Payload: o})
	return o, nil
}

func (s *orderService) Dashboard(ctx context.Context, tailor *model.User) (*DashboardStats, error) {
	orders, err := s.orderRepo.ListByTailor(ctx, tailor.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &DashboardStats{
		Rating:  tailor.Rating,
		Reviews: tailor.ReviewsCount,
	}
	for _, o := range orders {
		if sameDay(o.CreatedAt, now) {
			stats.OrdersToday++
			if o.CountsTowardEarnings() {
				stats.EarningsToday += o.Price
			}
		}
	}
	if len(orders) > 5 {
		orders = orders[:5]
	}
	stats.RecentOrders = orders
	return stats, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
