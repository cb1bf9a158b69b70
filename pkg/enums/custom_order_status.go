package enums

import "fmt"

// CustomOrderStatus is the review state of a custom cake request. The workflow values
// are written only when a dashboard entry mirrors its status onto the order.
type CustomOrderStatus string

const (
	CustomOrderStatusPending    CustomOrderStatus = "pending"
	CustomOrderStatusAccepted   CustomOrderStatus = "accepted"
	CustomOrderStatusRejected   CustomOrderStatus = "rejected"
	CustomOrderStatusInProgress CustomOrderStatus = "in_progress"
	CustomOrderStatusCompleted  CustomOrderStatus = "completed"
	CustomOrderStatusCancelled  CustomOrderStatus = "cancelled"
)

var validCustomOrderStatuses = []CustomOrderStatus{
	CustomOrderStatusPending,
	CustomOrderStatusAccepted,
	CustomOrderStatusRejected,
	CustomOrderStatusInProgress,
	CustomOrderStatusCompleted,
	CustomOrderStatusCancelled,
}

func (c CustomOrderStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomOrderStatus.
func (c CustomOrderStatus) IsValid() bool {
	for _, candidate := range validCustomOrderStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomOrderStatus converts raw input into a CustomOrderStatus.
func ParseCustomOrderStatus(value string) (CustomOrderStatus, error) {
	for _, candidate := range validCustomOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid custom order status %q", value)
}

func CustomOrderStatuses() []CustomOrderStatus {
	return append([]CustomOrderStatus(nil), validCustomOrderStatuses...)
}

// IsReviewDecision reports whether the value may be set by the custom order
// status endpoint.
func (c CustomOrderStatus) IsReviewDecision() bool {
	switch c {
	case CustomOrderStatusPending, CustomOrderStatusAccepted, CustomOrderStatusRejected:
		return true
	}
	return false
}
