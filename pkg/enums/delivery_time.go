package enums

import "fmt"

// DeliveryTime is the delivery window requested at checkout.
type DeliveryTime string

const (
	DeliveryTimeMorning   DeliveryTime = "morning"
	DeliveryTimeAfternoon DeliveryTime = "afternoon"
	DeliveryTimeEvening   DeliveryTime = "evening"
)

var validDeliveryTimes = []DeliveryTime{
	DeliveryTimeMorning,
	DeliveryTimeAfternoon,
	DeliveryTimeEvening,
}

func (d DeliveryTime) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryTime.
func (d DeliveryTime) IsValid() bool {
	for _, candidate := range validDeliveryTimes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryTime converts raw input into a DeliveryTime.
func ParseDeliveryTime(value string) (DeliveryTime, error) {
	for _, candidate := range validDeliveryTimes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery time %q", value)
}
