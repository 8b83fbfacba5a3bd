package model

import (
	"testing"
	"time"
)

func TestNewOrderID(t *testing.T) {
	ts := time.UnixMilli(1714651230123)
	if got := NewOrderID(ts); got != "order_1714651230123" {
		t.Fatalf("got=%q", got)
	}
}

func TestCountsTowardEarnings(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusWorking, true},
		{OrderStatusReady, true},
		{OrderStatusSatisfied, true},
		{OrderStatusNotSatisfied, true},
		{OrderStatusRejected, false},
		{OrderStatusRequest, false},
	}
	for _, tc := range cases {
		o := &Order{Status: tc.status}
		if got := o.CountsTowardEarnings(); got != tc.want {
			t.Fatalf("status=%s got=%v want=%v", tc.status, got, tc.want)
		}
	}
}
