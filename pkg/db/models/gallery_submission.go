package models

import (
	"time"

	"github.com/google/uuid"
)

// GallerySubmission is user-owned artwork. Only approved pieces are eligible
// for competition entry.
type GallerySubmission struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Title      string    `gorm:"column:title;not null"`
	ImageURL   string    `gorm:"column:image_url;not null"`
	IsApproved bool      `gorm:"column:is_approved;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
