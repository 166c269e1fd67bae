package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// ProductVariant is one (size, frame) kit configuration. At most one row
// exists per pair, enforced by ux_product_variants_size_frame.
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Size      enums.PrintSize `gorm:"column:size;type:print_size;not null;uniqueIndex:ux_product_variants_size_frame"`
	FrameType enums.FrameType `gorm:"column:frame_type;type:frame_type;not null;uniqueIndex:ux_product_variants_size_frame"`
	BasePrice decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// SKU returns the deterministic inventory SKU for the variant.
func (v ProductVariant) SKU() string {
	return enums.VariantSKU(v.Size, v.FrameType)
}
