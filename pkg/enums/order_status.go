package enums

import "fmt"

// OrderStatus tracks the post-checkout lifecycle of an order row.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusReceived        OrderStatus = "received"
	OrderStatusReturnRequested OrderStatus = "return_requested"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusReceived,
	OrderStatusReturnRequested,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// RequiredCurrent returns the only status an order may hold for the target
// transition to apply. return_requested is terminal.
func (s OrderStatus) RequiredCurrent() (OrderStatus, bool) {
	switch s {
	case OrderStatusReceived:
		return OrderStatusPending, true
	case OrderStatusReturnRequested:
		return OrderStatusReceived, true
	default:
		return "", false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
