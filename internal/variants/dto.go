package variants

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// VariantDTO is the API shape of a product variant.
type VariantDTO struct {
	ID        uuid.UUID       `json:"id"`
	Size      enums.PrintSize `json:"size"`
	FrameType enums.FrameType `json:"frame_type"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ResolveRequest carries the raw size/frame pair from the client.
type ResolveRequest struct {
	Size      string `json:"size" validate:"required"`
	FrameType string `json:"frame_type" validate:"required"`
}

// ResolveResponse wraps the resolved variant and whether this call minted it.
type ResolveResponse struct {
	Variant *VariantDTO `json:"variant"`
	Created bool        `json:"created"`
}

// FromModel maps a persisted variant into its DTO.
func FromModel(v *models.ProductVariant) *VariantDTO {
	if v == nil {
		return nil
	}
	return &VariantDTO{
		ID:        v.ID,
		Size:      v.Size,
		FrameType: v.FrameType,
		SKU:       v.SKU(),
		Name:      enums.VariantName(v.Size, v.FrameType),
		BasePrice: v.BasePrice,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
