package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// EventRSVP is a user's response to an event. ux_event_rsvps_event_user
// keeps at most one row per (event, user); status changes update in place.
type EventRSVP struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID   uuid.UUID        `gorm:"column:event_id;type:uuid;not null;uniqueIndex:ux_event_rsvps_event_user"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_event_rsvps_event_user"`
	Status    enums.RSVPStatus `gorm:"column:status;type:rsvp_status;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
