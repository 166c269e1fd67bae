package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// EventDTO is the API shape of an event with its attendance tally.
type EventDTO struct {
	ID             uuid.UUID         `json:"id"`
	InitiativeID   *uuid.UUID        `json:"initiative_id,omitempty"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	EventDate      time.Time         `json:"event_date"`
	Location       string            `json:"location"`
	AttendingCount int               `json:"attending_count"`
	MyStatus       *enums.RSVPStatus `json:"my_status,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// RSVPRequest carries the caller's response to an event.
type RSVPRequest struct {
	Status string `json:"status" validate:"required"`
}

// RSVPDTO is the stored response after an upsert.
type RSVPDTO struct {
	EventID   uuid.UUID        `json:"event_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Status    enums.RSVPStatus `json:"status"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// FromModel maps an event row into its DTO. Tallies are filled by the
// service.
func FromModel(e *models.Event) *EventDTO {
	if e == nil {
		return nil
	}
	return &EventDTO{
		ID:           e.ID,
		InitiativeID: e.InitiativeID,
		Title:        e.Title,
		Description:  e.Description,
		EventDate:    e.EventDate,
		Location:     e.Location,
		CreatedAt:    e.CreatedAt,
	}
}

func rsvpFromModel(r *models.EventRSVP) *RSVPDTO {
	return &RSVPDTO{
		EventID:   r.EventID,
		UserID:    r.UserID,
		Status:    r.Status,
		UpdatedAt: r.UpdatedAt,
	}
}
