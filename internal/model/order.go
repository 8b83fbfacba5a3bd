package model

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusRequest      OrderStatus = "request"
	OrderStatusWorking      OrderStatus = "working"
	OrderStatusReady        OrderStatus = "ready"
	OrderStatusSatisfied    OrderStatus = "satisfied"
	OrderStatusNotSatisfied OrderStatus = "not_satisfied"
	OrderStatusRejected     OrderStatus = "rejected"
)

type WorkType string

const (
	WorkTypeLight WorkType = "light"
	WorkTypeHeavy WorkType = "heavy"
)

// NewOrderID builds the order identifier from the creation time, e.g.
// "order_1714651230123".
func NewOrderID(t time.Time) string {
	return fmt.Sprintf("order_%d", t.UnixMilli())
}

// Order is the durable work engagement created when a tailor accepts an
// enquiry. It is created exactly once per accept and only progressed
// afterwards, never deleted.
type Order struct {
	ID           string      `gorm:"primaryKey;size:64" json:"orderId"`
	CustomerID   string      `gorm:"column:customer_id;size:128;index" json:"customerId"`
	CustomerName string      `gorm:"column:customer_name;size:120" json:"customerName"`
	TailorID     string      `gorm:"column:tailor_id;size:128;index" json:"tailorId"`
	TailorName   string      `gorm:"column:tailor_name;size:120" json:"tailorName"`
	Service      string      `gorm:"size:120;not null" json:"service"`
	Price        int         `json:"price"`
	Status       OrderStatus `gorm:"size:24;not null" json:"status"`
	WorkType     WorkType    `gorm:"column:work_type;size:16" json:"workType"`
	StartTime    time.Time   `gorm:"column:start_time" json:"startTime"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	LastUpdate   time.Time   `gorm:"column:last_update" json:"lastUpdate"`
}

func (Order) TableName() string {
	return "orders"
}

// CountsTowardEarnings reports whether an order's price is included in the
// tailor's earnings totals. Rejected orders and bare requests are not.
func (o *Order) CountsTowardEarnings() bool {
	return o.Status != OrderStatusRejected && o.Status != OrderStatusRequest
}
