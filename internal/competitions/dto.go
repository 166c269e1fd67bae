package competitions

import (
	"time"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// CompetitionDTO is the API shape of a competition with its derived status.
type CompetitionDTO struct {
	ID          uuid.UUID               `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     time.Time               `json:"end_date"`
	IsActive    bool                    `json:"is_active"`
	Status      enums.CompetitionStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
}

// EntryDTO is one competition entry with its vote tally.
type EntryDTO struct {
	ID            uuid.UUID `json:"id"`
	CompetitionID uuid.UUID `json:"competition_id"`
	SubmissionID  uuid.UUID `json:"submission_id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	ImageURL      string    `json:"image_url"`
	VoteCount     int       `json:"vote_count"`
	VotedByMe     bool      `json:"voted_by_me"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmitRequest enters an approved gallery piece into a competition.
type SubmitRequest struct {
	CompetitionID uuid.UUID `json:"competition_id" validate:"required"`
	SubmissionID  uuid.UUID `json:"submission_id" validate:"required"`
}

// VoteResponse returns the tally after a successful vote.
type VoteResponse struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	VoteCount    int       `json:"vote_count"`
}

// FromModel maps a competition row and the derived status into its DTO.
func FromModel(c *models.Competition, now time.Time) *CompetitionDTO {
	if c == nil {
		return nil
	}
	return &CompetitionDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		IsActive:    c.IsActive,
		Status:      Status(now, c),
		CreatedAt:   c.CreatedAt,
	}
}

func entryFromModel(e *models.CompetitionSubmission) EntryDTO {
	dto := EntryDTO{
		ID:            e.ID,
		CompetitionID: e.CompetitionID,
		SubmissionID:  e.SubmissionID,
		UserID:        e.UserID,
		CreatedAt:     e.CreatedAt,
	}
	if e.Submission != nil {
		dto.Title = e.Submission.Title
		dto.ImageURL = e.Submission.ImageURL
	}
	return dto
}
