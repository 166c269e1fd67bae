package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// VariantCreatedEvent signals that a new product variant was minted for a
// size and frame combination and should be mirrored to the inventory system.
type VariantCreatedEvent struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Size      enums.PrintSize `json:"size"`
	FrameType enums.FrameType `json:"frame_type"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// OrderSubmittedEvent is emitted when a cart is converted into an order.
type OrderSubmittedEvent struct {
	OrderID     uuid.UUID                   `json:"order_id"`
	UserID      uuid.UUID                   `json:"user_id"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	Items       []OrderSubmittedItemSummary `json:"items"`
	SubmittedAt time.Time                   `json:"submitted_at"`
}

// OrderSubmittedItemSummary carries the per-line snapshot downstream
// consumers need without re-reading the order.
type OrderSubmittedItemSummary struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Size      enums.PrintSize `json:"size"`
	FrameType enums.FrameType `json:"frame_type"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderStatusChangedEvent mirrors an admin status transition.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID         `json:"order_id"`
	UserID    uuid.UUID         `json:"user_id"`
	OldStatus enums.OrderStatus `json:"old_status"`
	NewStatus enums.OrderStatus `json:"new_status"`
	ChangedAt time.Time         `json:"changed_at"`
}

// CartItemsChangedEvent invalidates cached cart counts after any mutation.
type CartItemsChangedEvent struct {
	CartID    uuid.UUID `json:"cart_id"`
	UserID    uuid.UUID `json:"user_id"`
	ItemCount int       `json:"item_count"`
}
