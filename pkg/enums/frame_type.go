package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FrameType identifies the framing option added to a kit.
type FrameType string

const (
	FrameTypeNone     FrameType = "none"
	FrameTypeStandard FrameType = "standard"
	FrameTypePremium  FrameType = "premium"
)

type frameSpec struct {
	label string
	price decimal.Decimal
}

var frameSpecs = map[FrameType]frameSpec{
	FrameTypeNone:     {label: "No Frame", price: decimal.Zero},
	FrameTypeStandard: {label: "Standard", price: decimal.RequireFromString("349.99")},
	FrameTypePremium:  {label: "Premium", price: decimal.RequireFromString("699.99")},
}

// String implements fmt.Stringer.
func (f FrameType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FrameType.
func (f FrameType) IsValid() bool {
	_, ok := frameSpecs[f]
	return ok
}

// Label returns the human-readable frame name.
func (f FrameType) Label() string {
	return frameSpecs[f].label
}

// Price returns the surcharge for this frame option.
func (f FrameType) Price() decimal.Decimal {
	return frameSpecs[f].price
}

// ParseFrameType converts raw input into a FrameType.
func ParseFrameType(value string) (FrameType, error) {
	candidate := FrameType(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid frame type %q", value)
	}
	return candidate, nil
}
