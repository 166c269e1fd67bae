package initiatives

import (
	"time"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/internal/events"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// InitiativeDTO is the API shape of an initiative. Events are filled on the
// detail view only.
type InitiativeDTO struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      enums.InitiativeStatus `json:"status"`
	Events      []events.EventDTO      `json:"events,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// CollageSubmitRequest adds the caller's photo to an initiative collage.
type CollageSubmitRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// CollageDTO is one collage contribution.
type CollageDTO struct {
	ID           uuid.UUID `json:"id"`
	InitiativeID uuid.UUID `json:"initiative_id"`
	UserID       uuid.UUID `json:"user_id"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromModel maps an initiative row into its DTO.
func FromModel(i *models.Initiative) *InitiativeDTO {
	if i == nil {
		return nil
	}
	return &InitiativeDTO{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
	}
}

func collageFromModel(c *models.CollageSubmission) *CollageDTO {
	return &CollageDTO{
		ID:           c.ID,
		InitiativeID: c.InitiativeID,
		UserID:       c.UserID,
		ImageURL:     c.ImageURL,
		CreatedAt:    c.CreatedAt,
	}
}
