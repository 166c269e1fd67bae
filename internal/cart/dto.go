package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/internal/variants"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
)

// AddItemRequest captures a new cart line. Quantity is always one; adding
// the same variant again appends another line.
type AddItemRequest struct {
	VariantID uuid.UUID       `json:"variant_id" validate:"required"`
	ImageURL  string          `json:"image_url" validate:"required,url"`
	Price     decimal.Decimal `json:"price"`
}

// CartItemDTO is the API shape of one cart line.
type CartItemDTO struct {
	ID        uuid.UUID            `json:"id"`
	VariantID uuid.UUID            `json:"variant_id"`
	Quantity  int                  `json:"quantity"`
	Price     decimal.Decimal      `json:"price"`
	ImageURL  string               `json:"image_url"`
	Variant   *variants.VariantDTO `json:"variant,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// CartDTO is the API shape of a user's cart.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Items     []CartItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ItemCountResponse is the payload behind the cart badge endpoint.
type ItemCountResponse struct {
	Count int `json:"count"`
}

func itemFromModel(item *models.CartItem) CartItemDTO {
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return CartItemDTO{
		ID:        item.ID,
		VariantID: item.VariantID,
		Quantity:  quantity,
		Price:     item.Price,
		ImageURL:  item.ImageURL,
		Variant:   variants.FromModel(item.Variant),
		CreatedAt: item.CreatedAt,
	}
}

// FromModel maps a persisted cart and its lines into the DTO.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	items := make([]CartItemDTO, 0, len(c.Items))
	count := 0
	for i := range c.Items {
		dto := itemFromModel(&c.Items[i])
		count += dto.Quantity
		items = append(items, dto)
	}
	return &CartDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		ItemCount: count,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
