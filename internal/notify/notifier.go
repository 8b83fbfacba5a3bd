// Package notify sends the "new enquiry" SMS to a tailor when a customer
// opens a conversation. Delivery is fire-and-forget and at-most-once: every
// failure is logged and swallowed, the enquiry write is never affected.
package notify

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Devam759/StitchUp-Firebase/internal/eventbus"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
)

const enquiryText = "new enquiry"

type SMSSender interface {
	Send(ctx context.Context, numbers, message string) error
}

type Notifier struct {
	users repository.UserRepository
	sms   SMSSender
}

func NewNotifier(users repository.UserRepository, sms SMSSender) *Notifier {
	return &Notifier{users: users, sms: sms}
}

// Attach subscribes the notifier to enquiry creation events.
func (n *Notifier) Attach(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.TopicEnquiryCreated, n.handleEnquiryCreated)
}

func (n *Notifier) handleEnquiryCreated(ev eventbus.Event) {
	enq, ok := ev.Payload.(*model.Enquiry)
	if !ok || enq.TailorID == "" {
		log.Printf("notify: enquiry event without tailor id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tailor, err := n.users.FindByID(ctx, enq.TailorID)
	if err != nil {
		log.Printf("notify: tailor %s not found: %v", enq.TailorID, err)
		return
	}
	number := last10Digits(tailor.Phone)
	if number == "" {
		log.Printf("notify: no phone number for tailor %s", enq.TailorID)
		return
	}
	if n.sms == nil {
		log.Printf("notify: sms gateway not configured; skipping")
		return
	}
	if err := n.sms.Send(ctx, number, enquiryText); err != nil {
		log.Printf("notify: sms to %s failed: %v", number, err)
		return
	}
	log.Printf("notify: sms sent for enquiry %s", enq.Key)
}

func last10Digits(s string) string {
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
