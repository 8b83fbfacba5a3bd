package model

import (
	"errors"
	"fmt"
	"time"
)

type MessageFrom string

const (
	FromCustomer MessageFrom = "customer"
	FromTailor   MessageFrom = "tailor"
	FromSystem   MessageFrom = "system"
)

type MessageType string

const (
	TypePlain     MessageType = "plain"
	TypePricing   MessageType = "pricing"
	TypeRejection MessageType = "rejection"
	TypeVoice     MessageType = "voice"
)

// Message is one entry in an enquiry thread. Each message is its own row; the
// auto-increment ID is the authoritative ordering, so concurrent senders can
// never overwrite each other.
type Message struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ThreadKey string      `gorm:"column:thread_key;size:260;index" json:"threadKey"`
	From      MessageFrom `gorm:"column:sender;size:16;not null" json:"from"`
	Type      MessageType `gorm:"size:16;not null" json:"type"`
	Text      string      `gorm:"type:text;not null" json:"text"`
	Service   string      `gorm:"size:120" json:"service,omitempty"`
	Price     int         `json:"price,omitempty"`
	Reason    string      `gorm:"type:text" json:"reason,omitempty"`
	OrderID   string      `gorm:"column:order_id;size:64" json:"orderId,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

var ErrEmptyMessage = errors.New("message text is required")

// The constructors below are the only way messages are built: each variant
// carries exactly the fields valid for its type.

func NewPlainMessage(from MessageFrom, text string) (*Message, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}
	return &Message{From: from, Type: TypePlain, Text: text}, nil
}

func NewPricingMessage(service string, price int) (*Message, error) {
	if service == "" || price <= 0 {
		return nil, errors.New("service and price are required")
	}
	return &Message{
		From:    FromTailor,
		Type:    TypePricing,
		Text:    fmt.Sprintf("Custom pricing: %s - ₹%d", service, price),
		Service: service,
		Price:   price,
	}, nil
}

func NewRejectionMessage(reason string) (*Message, error) {
	if reason == "" {
		return nil, errors.New("reason is required")
	}
	return &Message{
		From:   FromTailor,
		Type:   TypeRejection,
		Text:   fmt.Sprintf("Order rejected: %s", reason),
		Reason: reason,
	}, nil
}

func NewSystemMessage(text, orderID string) *Message {
	return &Message{From: FromSystem, Type: TypePlain, Text: text, OrderID: orderID}
}

func NewVoiceMessage(from MessageFrom, audioURL string) (*Message, error) {
	if audioURL == "" {
		return nil, errors.New("audio url is required")
	}
	return &Message{From: from, Type: TypeVoice, Text: audioURL}, nil
}

// Preview is the list-view summary of a message body, capped at 100 runes.
// Truncating on a rune boundary keeps multibyte text valid UTF-8.
func (m *Message) Preview() string {
	if m.Type == TypeVoice {
		return "🎤 Voice message"
	}
	if runes := []rune(m.Text); len(runes) > 100 {
		return string(runes[:100])
	}
	return m.Text
}
