package enums

import "fmt"

// RSVPStatus captures a user's standing response to an event.
type RSVPStatus string

const (
	RSVPStatusAttending    RSVPStatus = "attending"
	RSVPStatusInterested   RSVPStatus = "interested"
	RSVPStatusNotAttending RSVPStatus = "not_attending"
)

var validRSVPStatuses = []RSVPStatus{
	RSVPStatusAttending,
	RSVPStatusInterested,
	RSVPStatusNotAttending,
}

// String implements fmt.Stringer.
func (r RSVPStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RSVPStatus.
func (r RSVPStatus) IsValid() bool {
	for _, candidate := range validRSVPStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRSVPStatus converts raw input into an RSVPStatus.
func ParseRSVPStatus(value string) (RSVPStatus, error) {
	for _, candidate := range validRSVPStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rsvp status %q", value)
}
