package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Devam759/StitchUp-Firebase/internal/eventbus"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
	"gorm.io/gorm"
)

func newEnquiryFixture(t *testing.T) (EnquiryService, repository.EnquiryRepository, *model.User, *model.User) {
	t.Helper()
	gdb := openTestDB(t)
	customer := &model.User{ID: "cust1", Role: model.RoleCustomer, Name: "Asha", Phone: "9876543210"}
	tailor := &model.User{ID: "tail1", Role: model.RoleTailor, Name: "Raj Tailors", Phone: "9876500001"}
	mustCreate(t, gdb, customer)
	mustCreate(t, gdb, tailor)

	enqRepo := repository.NewEnquiryRepository(gdb)
	userRepo := repository.NewUserRepository(gdb)
	svc := NewEnquiryService(enqRepo, userRepo, eventbus.New())
	return svc, enqRepo, customer, tailor
}

func TestBothSidesShareOneThread(t *testing.T) {
	svc, enqRepo, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "Can you hem two trousers?"); err != nil {
		t.Fatalf("customer send: %v", err)
	}
	if _, err := svc.SendTailorMessage(ctx, tailor, customer.ID, customer.Name, "Yes, bring them over."); err != nil {
		t.Fatalf("tailor send: %v", err)
	}

	key := model.ThreadKey(customer.ID, tailor.ID)
	enq, err := enqRepo.FindByKey(ctx, key)
	if err != nil {
		t.Fatalf("find thread: %v", err)
	}
	if enq.Key != "cust1_tail1" {
		t.Fatalf("key=%q want=%q", enq.Key, "cust1_tail1")
	}
	list, err := enqRepo.ListByTailor(ctx, tailor.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("threads=%d want=1", len(list))
	}
	msgs, err := enqRepo.ListMessages(ctx, key)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("messages=%d want=2", len(msgs))
	}
}

func TestMessagesKeepSendOrder(t *testing.T) {
	svc, _, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	const n = 10
	for i := 0; i < n; i++ {
		if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	_, msgs, err := svc.Thread(ctx, customer.ID, tailor.ID, customer.ID)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(msgs) != n {
		t.Fatalf("messages=%d want=%d", len(msgs), n)
	}
	for i, m := range msgs {
		if want := fmt.Sprintf("message %d", i); m.Text != want {
			t.Fatalf("msg[%d].Text=%q want=%q", i, m.Text, want)
		}
		if i > 0 && msgs[i-1].ID >= m.ID {
			t.Fatalf("ids not increasing: msg[%d]=%d msg[%d]=%d", i-1, msgs[i-1].ID, i, m.ID)
		}
	}
}

func TestConcurrentSendersLoseNothing(t *testing.T) {
	svc, enqRepo, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	// seed the thread so both goroutines race on appends, not on creation
	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "opening"); err != nil {
		t.Fatalf("seed send: %v", err)
	}

	const perSide = 10
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perSide; i++ {
			if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, fmt.Sprintf("from customer %d", i)); err != nil {
				t.Errorf("customer send %d: %v", i, err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perSide; i++ {
			if _, err := svc.SendTailorMessage(ctx, tailor, customer.ID, customer.Name, fmt.Sprintf("from tailor %d", i)); err != nil {
				t.Errorf("tailor send %d: %v", i, err)
			}
		}
	}()
	wg.Wait()

	msgs, err := enqRepo.ListMessages(ctx, model.ThreadKey(customer.ID, tailor.ID))
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2*perSide+1 {
		t.Fatalf("messages=%d want=%d", len(msgs), 2*perSide+1)
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	svc, enqRepo, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, ""); err != model.ErrEmptyMessage {
		t.Fatalf("err=%v want=%v", err, model.ErrEmptyMessage)
	}
	// no thread should exist either
	if _, err := enqRepo.FindByKey(ctx, model.ThreadKey(customer.ID, tailor.ID)); err == nil {
		t.Fatalf("thread created for empty message")
	}
}

func TestSendToUnknownTailor(t *testing.T) {
	svc, _, customer, _ := newEnquiryFixture(t)
	if _, err := svc.SendCustomerMessage(context.Background(), customer, "nobody", "hello"); err != ErrNotFound {
		t.Fatalf("err=%v want=%v", err, ErrNotFound)
	}
}

func TestPricingQuoteMessage(t *testing.T) {
	svc, _, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	msg, err := svc.SendPricing(ctx, tailor, customer.ID, customer.Name, "Hemming", 150)
	if err != nil {
		t.Fatalf("send pricing: %v", err)
	}
	if msg.Type != model.TypePricing {
		t.Fatalf("type=%q want=%q", msg.Type, model.TypePricing)
	}
	if msg.Text != "Custom pricing: Hemming - ₹150" {
		t.Fatalf("text=%q", msg.Text)
	}
	if msg.Service != "Hemming" || msg.Price != 150 {
		t.Fatalf("service=%q price=%d", msg.Service, msg.Price)
	}

	if _, err := svc.SendPricing(ctx, tailor, customer.ID, customer.Name, "", 150); err == nil {
		t.Fatalf("expected error for missing service")
	}
	if _, err := svc.SendPricing(ctx, tailor, customer.ID, customer.Name, "Hemming", 0); err == nil {
		t.Fatalf("expected error for non-positive price")
	}
}

func TestShareNumberMessage(t *testing.T) {
	svc, _, customer, tailor := newEnquiryFixture(t)

	msg, err := svc.ShareNumber(context.Background(), tailor, customer.ID, customer.Name)
	if err != nil {
		t.Fatalf("share number: %v", err)
	}
	want := "My contact number is: 9876500001. Feel free to call me!"
	if msg.Text != want {
		t.Fatalf("text=%q want=%q", msg.Text, want)
	}
}

func TestAcceptCreatesOrderOnce(t *testing.T) {
	svc, enqRepo, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "Need hemming done"); err != nil {
		t.Fatalf("send: %v", err)
	}

	order, err := svc.Accept(ctx, tailor, customer.ID, customer.Name, "Hemming", 150, model.WorkTypeHeavy)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if order.Service != "Hemming" || order.Price != 150 {
		t.Fatalf("order service=%q price=%d", order.Service, order.Price)
	}
	if order.Status != model.OrderStatusWorking {
		t.Fatalf("status=%q want=%q", order.Status, model.OrderStatusWorking)
	}
	if order.WorkType != model.WorkTypeHeavy {
		t.Fatalf("workType=%q want=%q", order.WorkType, model.WorkTypeHeavy)
	}

	key := model.ThreadKey(customer.ID, tailor.ID)
	enq, err := enqRepo.FindByKey(ctx, key)
	if err != nil {
		t.Fatalf("find thread: %v", err)
	}
	if enq.Status != model.EnquiryStatusAccepted {
		t.Fatalf("thread status=%q want=%q", enq.Status, model.EnquiryStatusAccepted)
	}

	msgs, err := enqRepo.ListMessages(ctx, key)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	var system []model.Message
	for _, m := range msgs {
		if m.From == model.FromSystem {
			system = append(system, m)
		}
	}
	if len(system) != 1 {
		t.Fatalf("system messages=%d want=1", len(system))
	}
	if system[0].OrderID != order.ID {
		t.Fatalf("system orderId=%q want=%q", system[0].OrderID, order.ID)
	}

	// second accept must not create another order
	if _, err := svc.Accept(ctx, tailor, customer.ID, customer.Name, "Hemming", 150, model.WorkTypeHeavy); err != ErrEnquiryClosed {
		t.Fatalf("second accept err=%v want=%v", err, ErrEnquiryClosed)
	}
}

// A terminal flip that read the thread as open but lost the race to another
// accept must fail at the row predicate and leave none of its writes behind.
func TestTerminalFlipRequiresOpenRow(t *testing.T) {
	gdb := openTestDB(t)
	customer := &model.User{ID: "cust1", Role: model.RoleCustomer, Name: "Asha", Phone: "9876543210"}
	tailor := &model.User{ID: "tail1", Role: model.RoleTailor, Name: "Raj Tailors", Phone: "9876500001"}
	mustCreate(t, gdb, customer)
	mustCreate(t, gdb, tailor)
	enqRepo := repository.NewEnquiryRepository(gdb)
	orderRepo := repository.NewOrderRepository(gdb)
	svc := NewEnquiryService(enqRepo, repository.NewUserRepository(gdb), eventbus.New())
	ctx := context.Background()

	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "Need a kurta stitched"); err != nil {
		t.Fatalf("send: %v", err)
	}
	first, err := svc.Accept(ctx, tailor, customer.ID, customer.Name, "Stitching", 400, model.WorkTypeLight)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	key := model.ThreadKey(customer.ID, tailor.ID)
	now := time.Now()
	late := &model.Order{
		ID:         "order_late",
		CustomerID: customer.ID, CustomerName: customer.Name,
		TailorID: tailor.ID, TailorName: tailor.Name,
		Service: "Stitching", Price: 400,
		Status: model.OrderStatusWorking, WorkType: model.WorkTypeLight,
		StartTime: now, LastUpdate: now,
	}
	note := model.NewSystemMessage("Work started! Raj Tailors has accepted your request. Tracking ID: order_late", late.ID)
	if err := enqRepo.Accept(ctx, key, late, note); !errors.Is(err, repository.ErrNotOpen) {
		t.Fatalf("late accept err=%v want=%v", err, repository.ErrNotOpen)
	}
	// the losing order and its note rolled back with the transaction
	if _, err := orderRepo.FindByID(ctx, late.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("late order err=%v want=%v", err, gorm.ErrRecordNotFound)
	}
	msgs, err := enqRepo.ListMessages(ctx, key)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	var system int
	for _, m := range msgs {
		if m.From == model.FromSystem {
			system++
			if m.OrderID != first.ID {
				t.Fatalf("note orderId=%q want=%q", m.OrderID, first.ID)
			}
		}
	}
	if system != 1 {
		t.Fatalf("system messages=%d want=1", system)
	}

	// a late reject fails the same way and persists no rejection message
	rej, err := model.NewRejectionMessage("Too busy this week")
	if err != nil {
		t.Fatalf("rejection: %v", err)
	}
	if err := enqRepo.Reject(ctx, key, rej); !errors.Is(err, repository.ErrNotOpen) {
		t.Fatalf("late reject err=%v want=%v", err, repository.ErrNotOpen)
	}
	msgs, err = enqRepo.ListMessages(ctx, key)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	for _, m := range msgs {
		if m.Type == model.TypeRejection {
			t.Fatalf("rejection message persisted: %+v", m)
		}
	}
	enq, err := enqRepo.FindByKey(ctx, key)
	if err != nil {
		t.Fatalf("find thread: %v", err)
	}
	if enq.Status != model.EnquiryStatusAccepted {
		t.Fatalf("status=%q want=%q", enq.Status, model.EnquiryStatusAccepted)
	}
}

func TestAcceptDefaults(t *testing.T) {
	svc, _, customer, tailor := newEnquiryFixture(t)

	order, err := svc.Accept(context.Background(), tailor, customer.ID, customer.Name, "", -20, "")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if order.Service != "Tailoring Service" {
		t.Fatalf("service=%q", order.Service)
	}
	if order.Price != 0 {
		t.Fatalf("price=%d want=0", order.Price)
	}
	if order.WorkType != model.WorkTypeLight {
		t.Fatalf("workType=%q want=%q", order.WorkType, model.WorkTypeLight)
	}
}

func TestRejectNeedsReason(t *testing.T) {
	svc, enqRepo, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "Urgent blouse work?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	key := model.ThreadKey(customer.ID, tailor.ID)
	if err := svc.Reject(ctx, tailor, customer.ID, customer.Name, ""); err == nil {
		t.Fatalf("expected error for empty reason")
	}
	enq, err := enqRepo.FindByKey(ctx, key)
	if err != nil {
		t.Fatalf("find thread: %v", err)
	}
	if enq.Status != model.EnquiryStatusOpen {
		t.Fatalf("status=%q want=%q after failed reject", enq.Status, model.EnquiryStatusOpen)
	}

	if err := svc.Reject(ctx, tailor, customer.ID, customer.Name, "Too busy this week"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	enq, err = enqRepo.FindByKey(ctx, key)
	if err != nil {
		t.Fatalf("find thread: %v", err)
	}
	if enq.Status != model.EnquiryStatusRejected {
		t.Fatalf("status=%q want=%q", enq.Status, model.EnquiryStatusRejected)
	}
	last, err := enqRepo.LastMessage(ctx, key)
	if err != nil {
		t.Fatalf("last message: %v", err)
	}
	if last.Type != model.TypeRejection || last.Text != "Order rejected: Too busy this week" {
		t.Fatalf("last=%+v", last)
	}

	if err := svc.Reject(ctx, tailor, customer.ID, customer.Name, "Changed my mind"); err != ErrEnquiryClosed {
		t.Fatalf("second reject err=%v want=%v", err, ErrEnquiryClosed)
	}
	// chat stays writable after the thread closes
	if _, err := svc.SendTailorMessage(ctx, tailor, customer.ID, customer.Name, "Try again next month"); err != nil {
		t.Fatalf("send after reject: %v", err)
	}
}

func TestThreadVisibility(t *testing.T) {
	svc, _, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	// missing thread reads as empty, not as an error
	enq, msgs, err := svc.Thread(ctx, customer.ID, tailor.ID, customer.ID)
	if err != nil {
		t.Fatalf("empty thread: %v", err)
	}
	if enq != nil || len(msgs) != 0 {
		t.Fatalf("enq=%v msgs=%d want empty", enq, len(msgs))
	}

	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, _, err := svc.Thread(ctx, customer.ID, tailor.ID, "stranger"); err != ErrForbidden {
		t.Fatalf("err=%v want=%v", err, ErrForbidden)
	}
	if _, _, err := svc.Thread(ctx, customer.ID, tailor.ID, tailor.ID); err != nil {
		t.Fatalf("tailor view: %v", err)
	}
}

func TestListForTailorPreviews(t *testing.T) {
	svc, _, customer, tailor := newEnquiryFixture(t)
	ctx := context.Background()

	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendCustomerMessage(ctx, customer, tailor.ID, "second"); err != nil {
		t.Fatalf("send: %v", err)
	}

	previews, err := svc.ListForTailor(ctx, tailor.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("previews=%d want=1", len(previews))
	}
	if previews[0].LastMessage == nil || previews[0].LastMessage.Text != "second" {
		t.Fatalf("last=%+v", previews[0].LastMessage)
	}
}

func TestVoiceMessagePreview(t *testing.T) {
	svc, _, customer, tailor := newEnquiryFixture(t)

	msg, err := svc.SendVoice(context.Background(), customer, tailor, "https://example.com/audio/clip.webm")
	if err != nil {
		t.Fatalf("send voice: %v", err)
	}
	if msg.Type != model.TypeVoice || msg.From != model.FromCustomer {
		t.Fatalf("msg=%+v", msg)
	}
	if got := msg.Preview(); got != "🎤 Voice message" {
		t.Fatalf("preview=%q", got)
	}
}
