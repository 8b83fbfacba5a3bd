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

var ErrEnquiryClosed = errors.New("enquiry already accepted or rejected")

// MessageEvent is the bus payload for message.created and enquiry.updated.
type MessageEvent struct {
	Enquiry *model.Enquiry
	Message *model.Message
}

type EnquiryService interface {
	SendCustomerMessage(ctx context.Context, customer *model.User, tailorID, text string) (*model.Message, error)
	SendTailorMessage(ctx context.Context, tailor *model.User, customerID, customerName, text string) (*model.Message, error)
	SendPricing(ctx context.Context, tailor *model.User, customerID, customerName, svcName string, price int) (*model.Message, error)
	ShareNumber(ctx context.Context, tailor *model.User, customerID, customerName string) (*model.Message, error)
	SendVoice(ctx context.Context, sender *model.User, counterpart *model.User, audioURL string) (*model.Message, error)
	Reject(ctx context.Context, tailor *model.User, customerID, customerName, reason string) error
	Accept(ctx context.Context, tailor *model.User, customerID, customerName, svcName string, price int, workType model.WorkType) (*model.Order, error)
	ListForTailor(ctx context.Context, tailorID string) ([]EnquiryPreview, error)
	Thread(ctx context.Context, customerID, tailorID, viewerID string) (*model.Enquiry, []model.Message, error)
}

type EnquiryPreview struct {
	Enquiry     model.Enquiry
	LastMessage *model.Message
}

type enquiryService struct {
	enqRepo  repository.EnquiryRepository
	userRepo repository.UserRepository
	bus      *eventbus.Bus
}

func NewEnquiryService(enqRepo repository.EnquiryRepository, userRepo repository.UserRepository, bus *eventbus.Bus) EnquiryService {
	return &enquiryService{enqRepo: enqRepo, userRepo: userRepo, bus: bus}
}

// ensureThread upserts the conversation row and announces first creation on
// the bus (the SMS trigger listens for it).
func (s *enquiryService) ensureThread(ctx context.Context, customerID, customerName, tailorID, tailorName string) (*model.Enquiry, error) {
	enq := &model.Enquiry{
		Key:          model.ThreadKey(customerID, tailorID),
		CustomerID:   customerID,
		CustomerName: customerName,
		TailorID:     tailorID,
		TailorName:   tailorName,
	}
	created, err := s.enqRepo.FindOrCreate(ctx, enq)
	if err != nil {
		return nil, err
	}
	if created {
		s.bus.Publish(eventbus.Event{Topic: eventbus.TopicEnquiryCreated, Payload: enq})
	}
	return enq, nil
}

func (s *enquiryService) append(ctx context.Context, enq *model.Enquiry, msg *model.Message) error {
	if err := s.enqRepo.AppendMessage(ctx, enq.Key, msg); err != nil {
		return err
	}
	s.bus.Publish(eventbus.Event{
		Topic:   eventbus.TopicMessageCreated,
		Payload: MessageEvent{Enquiry: enq, Message: msg},
	})
	return nil
}

func (s *enquiryService) SendCustomerMessage(ctx context.Context, customer *model.User, tailorID, text string) (*model.Message, error) {
	msg, err := model.NewPlainMessage(model.FromCustomer, text)
	if err != nil {
		return nil, err
	}
	tailor, err := s.userRepo.FindByID(ctx, tailorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	enq, err := s.ensureThread(ctx, customer.ID, customer.Name, tailor.ID, tailor.Name)
	if err != nil {
		return nil, err
	}
	if err := s.append(ctx, enq, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *enquiryService) SendTailorMessage(ctx context.Context, tailor *model.User, customerID, customerName, text string) (*model.Message, error) {
	msg, err := model.NewPlainMessage(model.FromTailor, text)
	if err != nil {
		return nil, err
	}
	enq, err := s.ensureThread(ctx, customerID, customerName, tailor.ID, tailor.Name)
	if err != nil {
		return nil, err
	}
	if err := s.append(ctx, enq, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *enquiryService) SendPricing(ctx context.Context, tailor *model.User, customerID, customerName, svcName string, price int) (*model.Message, error) {
	msg, err := model.NewPricingMessage(svcName, price)
	if err != nil {
		return nil, err
	}
	enq, err := s.ensureThread(ctx, customerID, customerName, tailor.ID, tailor.Name)
	if err != nil {
		return nil, err
	}
	if err := s.append(ctx, enq, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *enquiryService) ShareNumber(ctx context.Context, tailor *model.User, customerID, customerName string) (*model.Message, error) {
	phone := tailor.Phone
	if phone == "" {
		phone = "N/A"
	}
	text := fmt.Sprintf("My contact number is: %s. Feel free to call me!", phone)
	return s.SendTailorMessage(ctx, tailor, customerID, customerName, text)
}

func (s *enquiryService) SendVoice(ctx context.Context, sender *model.User, counterpart *model.User, audioURL string) (*model.Message, error) {
	from := model.FromCustomer
	customer, tailor := sender, counterpart
	if sender.Role == model.RoleTailor {
		from = model.FromTailor
		customer, tailor = counterpart, sender
	}
	msg, err := model.NewVoiceMessage(from, audioURL)
	if err != nil {
		return nil, err
	}
	enq, err := s.ensureThread(ctx, customer.ID, customer.Name, tailor.ID, tailor.Name)
	if err != nil {
		return nil, err
	}
	if err := s.append(ctx, enq, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Reject closes the thread with a mandatory reason. The rejection message and
// the status change commit together; an empty reason writes nothing.
func (s *enquiryService) Reject(ctx context.Context, tailor *model.User, customerID, customerName, reason string) error {
	msg, err := model.NewRejectionMessage(reason)
	if err != nil {
		return err
	}
	enq, err := s.ensureThread(ctx, customerID, customerName, tailor.ID, tailor.Name)
	if err != nil {
		return err
	}
	if enq.Status != model.EnquiryStatusOpen {
		return ErrEnquiryClosed
	}
	if err := s.enqRepo.Reject(ctx, enq.Key, msg); err != nil {
		if errors.Is(err, repository.ErrNotOpen) {
			return ErrEnquiryClosed
		}
		return err
	}
	enq.Status = model.EnquiryStatusRejected
	s.bus.Publish(eventbus.Event{
		Topic:   eventbus.TopicEnquiryUpdated,
		Payload: MessageEvent{Enquiry: enq, Message: msg},
	})
	return nil
}

// Accept materializes the order, appends the tracking message, and marks the
// thread accepted — all in one transaction, so a failed order write leaves the
// thread untouched.
func (s *enquiryService) Accept(ctx context.Context, tailor *model.User, customerID, customerName, svcName string, price int, workType model.WorkType) (*model.Order, error) {
	enq, err := s.ensureThread(ctx, customerID, customerName, tailor.ID, tailor.Name)
	if err != nil {
		return nil, err
	}
	if enq.Status != model.EnquiryStatusOpen {
		return nil, ErrEnquiryClosed
	}

	now := time.Now()
	if svcName == "" {
		svcName = "Tailoring Service"
	}
	if price < 0 {
		price = 0
	}
	if workType == "" {
		workType = model.WorkTypeLight
	}
	order := &model.Order{
		ID:           model.NewOrderID(now),
		CustomerID:   customerID,
		CustomerName: customerName,
		TailorID:     tailor.ID,
		TailorName:   tailor.Name,
		Service:      svcName,
		Price:        price,
		Status:       model.OrderStatusWorking,
		WorkType:     workType,
		StartTime:    now,
		LastUpdate:   now,
	}
	msg := model.NewSystemMessage(
		fmt.Sprintf("Work started! %s has accepted your request. Tracking ID: %s", tailor.Name, order.ID),
		order.ID,
	)
	if err := s.enqRepo.Accept(ctx, enq.Key, order, msg); err != nil {
		if errors.Is(err, repository.ErrNotOpen) {
			return nil, ErrEnquiryClosed
		}
		return nil, err
	}
	enq.Status = model.EnquiryStatusAccepted
	s.bus.Publish(eventbus.Event{
		Topic:   eventbus.TopicEnquiryUpdated,
		Payload: MessageEvent{Enquiry: enq, Message: msg},
	})
	s.bus.Publish(eventbus.Event{Topic: eventbus.TopicOrderUpdated, Payload: order})
	return order, nil
}

func (s *enquiryService) ListForTailor(ctx context.Context, tailorID string) ([]EnquiryPreview, error) {
	enquiries, err := s.enqRepo.ListByTailor(ctx, tailorID)
	if err != nil {
		return nil, err
	}
	previews := make([]EnquiryPreview, 0, len(enquiries))
	for _, enq := range enquiries {
		last, err := s.enqRepo.LastMessage(ctx, enq.Key)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		previews = append(previews, EnquiryPreview{Enquiry: enq, LastMessage: last})
	}
	return previews, nil
}

// Thread loads a conversation and its ordered messages. A missing thread is
// an empty state, not an error.
func (s *enquiryService) Thread(ctx context.Context, customerID, tailorID, viewerID string) (*model.Enquiry, []model.Message, error) {
	key := model.ThreadKey(customerID, tailorID)
	enq, err := s.enqRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, []model.Message{}, nil
		}
		return nil, nil, err
	}
	if !enq.IsParticipant(viewerID) {
		return nil, nil, ErrForbidden
	}
	msgs, err := s.enqRepo.ListMessages(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return enq, msgs, nil
}
