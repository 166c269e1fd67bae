package models

import (
	"time"

	"github.com/google/uuid"
)

// CollageSubmission is a user's photo contribution to an initiative collage.
// ux_collage_submissions_initiative_user keeps one per user per initiative.
type CollageSubmission struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InitiativeID uuid.UUID `gorm:"column:initiative_id;type:uuid;not null;uniqueIndex:ux_collage_submissions_initiative_user"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_collage_submissions_initiative_user"`
	ImageURL     string    `gorm:"column:image_url;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
