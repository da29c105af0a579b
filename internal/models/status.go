package models

import "fmt"

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusProcessing     OrderStatus = "Processing"
	StatusOutForDelivery OrderStatus = "OutForDelivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
	StatusFailed         OrderStatus = "Failed"
)

var allStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusFailed,
}

func AllStatuses() []OrderStatus {
	out := make([]OrderStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) Valid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// Terminal reports whether no further transition can leave s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

type statusEdge struct {
	from OrderStatus
	to   OrderStatus
}

// A customer may only withdraw an order nobody has started working on.
var customerTransitions = map[statusEdge]bool{
	{StatusPending, StatusCancelled}: true,
}

func CanCustomerTransition(from, to OrderStatus) bool {
	return customerTransitions[statusEdge{from, to}]
}
