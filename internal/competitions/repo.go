package competitions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
)

// Repository provides competition persistence on top of a gorm handle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&competition).Error
	if err != nil {
		return nil, err
	}
	return &competition, nil
}

// ListCompetitions returns competitions newest window first.
func (r *Repository) ListCompetitions(ctx context.Context) ([]models.Competition, error) {
	var rows []models.Competition
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindGallerySubmission(ctx context.Context, id uuid.UUID) (*models.GallerySubmission, error) {
	var submission models.GallerySubmission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *Repository) FindEntry(ctx context.Context, competitionID, submissionID uuid.UUID) (*models.CompetitionSubmission, error) {
	var entry models.CompetitionSubmission
	err := r.db.WithContext(ctx).
		Where("competition_id = ? AND submission_id = ?", competitionID, submissionID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) FindEntryByID(ctx context.Context, id uuid.UUID) (*models.CompetitionSubmission, error) {
	var entry models.CompetitionSubmission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) InsertEntry(ctx context.Context, entry *models.CompetitionSubmission) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListEntries returns a competition's entries with their gallery pieces,
// oldest first.
func (r *Repository) ListEntries(ctx context.Context, competitionID uuid.UUID) ([]models.CompetitionSubmission, error) {
	var rows []models.CompetitionSubmission
	err := r.db.WithContext(ctx).
		Preload("Submission").
		Where("competition_id = ?", competitionID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindVote(ctx context.Context, userID, submissionID uuid.UUID) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND submission_id = ?", userID, submissionID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *Repository) InsertVote(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *Repository) CountVotes(ctx context.Context, submissionID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	return int(count), err
}

type voteTally struct {
	SubmissionID uuid.UUID `gorm:"column:submission_id"`
	Votes        int       `gorm:"column:votes"`
}

// VoteCounts tallies votes for the given entries in one query.
func (r *Repository) VoteCounts(ctx context.Context, submissionIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(submissionIDs))
	if len(submissionIDs) == 0 {
		return counts, nil
	}
	var tallies []voteTally
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("submission_id, COUNT(*) AS votes").
		Where("submission_id IN ?", submissionIDs).
		Group("submission_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, err
	}
	for _, tally := range tallies {
		counts[tally.SubmissionID] = tally.Votes
	}
	return counts, nil
}

// VotedSubmissions reports which of the given entries the user has voted on.
func (r *Repository) VotedSubmissions(ctx context.Context, userID uuid.UUID, submissionIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	voted := make(map[uuid.UUID]bool, len(submissionIDs))
	if len(submissionIDs) == 0 {
		return voted, nil
	}
	var rows []models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND submission_id IN ?", userID, submissionIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		voted[row.SubmissionID] = true
	}
	return voted, nil
}
