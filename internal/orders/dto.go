package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/internal/users"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// OrderItemDTO is one order line with its denormalized snapshots.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Size      enums.PrintSize `json:"size"`
	FrameType enums.FrameType `json:"frame_type"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
}

// OrderDTO is the API shape of an order.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderItemDTO    `json:"items"`
	User        *users.UserDTO    `json:"user,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OrderList is one page of the admin order listing.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// SetStatusRequest carries the admin's requested status value.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// FromModel maps an order and its preloaded associations into the DTO.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			VariantID: item.VariantID,
			Size:      item.Size,
			FrameType: item.FrameType,
			Quantity:  item.Quantity,
			Price:     item.Price,
			ImageURL:  item.ImageURL,
		})
	}
	return &OrderDTO{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		User:        users.FromModel(o.User),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
