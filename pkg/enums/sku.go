package enums

import (
	"fmt"
	"strings"
)

// SKUPrefix namespaces every kit SKU pushed to the inventory provider.
const SKUPrefix = "CA"

// VariantSKU returns the deterministic SKU for a (size, frame) pair,
// e.g. "CA-a3-NONE".
func VariantSKU(size PrintSize, frame FrameType) string {
	return fmt.Sprintf("%s-%s-%s", SKUPrefix, size, strings.ToUpper(string(frame)))
}

// VariantName returns the human-readable item name used for inventory
// mirroring, e.g. "ChartedArt Kit - A3 - Standard Frame".
func VariantName(size PrintSize, frame FrameType) string {
	if frame == FrameTypeNone {
		return fmt.Sprintf("ChartedArt Kit - %s - No Frame", size.Label())
	}
	return fmt.Sprintf("ChartedArt Kit - %s - %s Frame", size.Label(), frame.Label())
}
