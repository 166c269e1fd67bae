package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// Initiative is a community engagement campaign grouping events and
// collage submissions.
type Initiative struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string                 `gorm:"column:title;not null"`
	Description string                 `gorm:"column:description"`
	Status      enums.InitiativeStatus `gorm:"column:status;type:initiative_status;not null;default:'active'"`
	Events      []Event                `gorm:"foreignKey:InitiativeID"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
