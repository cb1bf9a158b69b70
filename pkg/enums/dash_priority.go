package enums

import "fmt"

type DashPriority string

const (
	DashPriorityLow    DashPriority = "low"
	DashPriorityMedium DashPriority = "medium"
	DashPriorityHigh   DashPriority = "high"
)

var validDashPriorities = []DashPriority{
	DashPriorityLow,
	DashPriorityMedium,
	DashPriorityHigh,
}

func (d DashPriority) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DashPriority.
func (d DashPriority) IsValid() bool {
	for _, candidate := range validDashPriorities {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDashPriority converts raw input into a DashPriority.
func ParseDashPriority(value string) (DashPriority, error) {
	for _, candidate := range validDashPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dashboard priority %q", value)
}

func DashPriorities() []DashPriority {
	return append([]DashPriority(nil), validDashPriorities...)
}
