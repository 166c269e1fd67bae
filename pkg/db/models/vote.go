package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote records one user's vote for a competition entry.
// ux_votes_user_submission enforces one vote per user per entry.
type Vote struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_votes_user_submission"`
	SubmissionID uuid.UUID `gorm:"column:submission_id;type:uuid;not null;uniqueIndex:ux_votes_user_submission"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
