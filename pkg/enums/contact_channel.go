package enums

import "fmt"

// ContactChannel is how a customer prefers to be reached.
type ContactChannel string

const (
	ContactChannelPhone ContactChannel = "phone"
	ContactChannelSMS   ContactChannel = "sms"
	ContactChannelEmail ContactChannel = "email"
)

var validContactChannels = []ContactChannel{
	ContactChannelPhone,
	ContactChannelSMS,
	ContactChannelEmail,
}

func (c ContactChannel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactChannel.
func (c ContactChannel) IsValid() bool {
	for _, candidate := range validContactChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactChannel converts raw input into a ContactChannel.
func ParseContactChannel(value string) (ContactChannel, error) {
	for _, candidate := range validContactChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact channel %q", value)
}
