package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// OrderItem is one order line carrying denormalized size/frame/price
// snapshots captured when the order was submitted.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	VariantID uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Size      enums.PrintSize `gorm:"column:size;type:print_size;not null"`
	FrameType enums.FrameType `gorm:"column:frame_type;type:frame_type;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL  string          `gorm:"column:image_url;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
