package model

import (
	"fmt"
	"strings"
	"time"
)

type EnquiryStatus string

const (
	EnquiryStatusOpen     EnquiryStatus = "open"
	EnquiryStatusAccepted EnquiryStatus = "accepted"
	EnquiryStatusRejected EnquiryStatus = "rejected"
)

// ThreadKey derives the single addressing key for the conversation between a
// customer and a tailor. Order matters: the customer always comes first.
func ThreadKey(customerID, tailorID string) string {
	return fmt.Sprintf("%s_%s", customerID, tailorID)
}

// SplitThreadKey reverses ThreadKey. The second return is false when the key
// does not contain a separator.
func SplitThreadKey(key string) (customerID, tailorID string, ok bool) {
	i := strings.Index(key, "_")
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// Enquiry is one conversation thread between a customer and a tailor, keyed by
// ThreadKey. The identity fields never change after the row is created.
type Enquiry struct {
	Key          string        `gorm:"primaryKey;size:260;column:thread_key" json:"key"`
	CustomerID   string        `gorm:"column:customer_id;size:128;index" json:"customerId"`
	CustomerName string        `gorm:"column:customer_name;size:120" json:"customerName"`
	TailorID     string        `gorm:"column:tailor_id;size:128;index" json:"tailorId"`
	TailorName   string        `gorm:"column:tailor_name;size:120" json:"tailorName"`
	Status       EnquiryStatus `gorm:"size:16;default:open" json:"status"`
	LastUpdated  time.Time     `gorm:"column:last_updated;index" json:"lastUpdated"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"createdAt"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}

func (e *Enquiry) IsParticipant(userID string) bool {
	return e.CustomerID == userID || e.TailorID == userID
}
