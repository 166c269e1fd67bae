package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PrintSize identifies a kit's paper size. Each size carries a fixed price
// and the minimum pixel count required on the image's smaller dimension for
// print-quality output.
type PrintSize string

const (
	PrintSizeA4 PrintSize = "a4"
	PrintSizeA3 PrintSize = "a3"
	PrintSizeA2 PrintSize = "a2"
	PrintSizeA1 PrintSize = "a1"
	PrintSizeA0 PrintSize = "a0"
)

type printSizeSpec struct {
	label     string
	price     decimal.Decimal
	minPixels int
}

var printSizeSpecs = map[PrintSize]printSizeSpec{
	PrintSizeA4: {label: "A4", price: decimal.RequireFromString("499.99"), minPixels: 1748},
	PrintSizeA3: {label: "A3", price: decimal.RequireFromString("699.99"), minPixels: 2480},
	PrintSizeA2: {label: "A2", price: decimal.RequireFromString("899.99"), minPixels: 3508},
	PrintSizeA1: {label: "A1", price: decimal.RequireFromString("1299.99"), minPixels: 4961},
	PrintSizeA0: {label: "A0", price: decimal.RequireFromString("1699.99"), minPixels: 7016},
}

// PrintSizesBySize lists sizes from smallest to largest print area.
var PrintSizesBySize = []PrintSize{
	PrintSizeA4,
	PrintSizeA3,
	PrintSizeA2,
	PrintSizeA1,
	PrintSizeA0,
}

// String implements fmt.Stringer.
func (p PrintSize) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrintSize.
func (p PrintSize) IsValid() bool {
	_, ok := printSizeSpecs[p]
	return ok
}

// Label returns the human-readable size name.
func (p PrintSize) Label() string {
	return printSizeSpecs[p].label
}

// Price returns the kit price for this size before framing.
func (p PrintSize) Price() decimal.Decimal {
	return printSizeSpecs[p].price
}

// MinPixels returns the minimum pixel count required on the image's smaller
// dimension to print this size without visible quality loss.
func (p PrintSize) MinPixels() int {
	return printSizeSpecs[p].minPixels
}

// ParsePrintSize converts raw input into a PrintSize.
func ParsePrintSize(value string) (PrintSize, error) {
	candidate := PrintSize(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid print size %q", value)
	}
	return candidate, nil
}
