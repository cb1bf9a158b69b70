package enums

import "fmt"

type ReviewStatus string

const (
	ReviewStatusPending ReviewStatus = "Pending"
	ReviewStatusSolved  ReviewStatus = "Solved"
)

var validReviewStatuses = []ReviewStatus{
	ReviewStatusPending,
	ReviewStatusSolved,
}

func (r ReviewStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReviewStatus.
func (r ReviewStatus) IsValid() bool {
	for _, candidate := range validReviewStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReviewStatus converts raw input into a ReviewStatus.
func ParseReviewStatus(value string) (ReviewStatus, error) {
	for _, candidate := range validReviewStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review status %q", value)
}
