package enums

import "fmt"

// InitiativeStatus tracks the lifecycle of a community initiative.
type InitiativeStatus string

const (
	InitiativeStatusActive    InitiativeStatus = "active"
	InitiativeStatusCompleted InitiativeStatus = "completed"
	InitiativeStatusArchived  InitiativeStatus = "archived"
)

var validInitiativeStatuses = []InitiativeStatus{
	InitiativeStatusActive,
	InitiativeStatusCompleted,
	InitiativeStatusArchived,
}

// String implements fmt.Stringer.
func (i InitiativeStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InitiativeStatus.
func (i InitiativeStatus) IsValid() bool {
	for _, candidate := range validInitiativeStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInitiativeStatus converts raw input into an InitiativeStatus.
func ParseInitiativeStatus(value string) (InitiativeStatus, error) {
	for _, candidate := range validInitiativeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid initiative status %q", value)
}
