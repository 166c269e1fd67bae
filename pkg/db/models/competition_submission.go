package models

import (
	"time"

	"github.com/google/uuid"
)

// CompetitionSubmission enters a gallery piece into a competition.
// ux_competition_submissions_entry enforces one entry per piece per
// competition; a duplicate insert surfaces as "already submitted".
type CompetitionSubmission struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompetitionID uuid.UUID          `gorm:"column:competition_id;type:uuid;not null;uniqueIndex:ux_competition_submissions_entry"`
	SubmissionID  uuid.UUID          `gorm:"column:submission_id;type:uuid;not null;uniqueIndex:ux_competition_submissions_entry"`
	UserID        uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Submission    *GallerySubmission `gorm:"foreignKey:SubmissionID"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
