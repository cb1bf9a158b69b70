package enums

import "fmt"

// DashStatus is the production workflow state of a dashboard entry.
type DashStatus string

const (
	DashStatusPending    DashStatus = "pending"
	DashStatusInProgress DashStatus = "in_progress"
	DashStatusCompleted  DashStatus = "completed"
	DashStatusCancelled  DashStatus = "cancelled"
)

var validDashStatuses = []DashStatus{
	DashStatusPending,
	DashStatusInProgress,
	DashStatusCompleted,
	DashStatusCancelled,
}

func (d DashStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DashStatus.
func (d DashStatus) IsValid() bool {
	for _, candidate := range validDashStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDashStatus converts raw input into a DashStatus.
func ParseDashStatus(value string) (DashStatus, error) {
	for _, candidate := range validDashStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dashboard status %q", value)
}

func DashStatuses() []DashStatus {
	return append([]DashStatus(nil), validDashStatuses...)
}

// Mirror maps the dashboard status onto the linked custom order verbatim.
func (d DashStatus) Mirror() CustomOrderStatus {
	return CustomOrderStatus(d)
}
