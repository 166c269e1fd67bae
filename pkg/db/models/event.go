package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a scheduled community gathering, optionally tied to an
// initiative. Only approved events are listed publicly.
type Event struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InitiativeID *uuid.UUID `gorm:"column:initiative_id;type:uuid"`
	Title        string     `gorm:"column:title;not null"`
	Description  string     `gorm:"column:description"`
	EventDate    time.Time  `gorm:"column:event_date;not null"`
	Location     string     `gorm:"column:location"`
	IsApproved   bool       `gorm:"column:is_approved;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
