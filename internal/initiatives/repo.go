package initiatives

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// Repository provides initiative persistence on top of a gorm handle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active initiatives newest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.Initiative, error) {
	var rows []models.Initiative
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.InitiativeStatusActive).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Initiative, error) {
	var initiative models.Initiative
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&initiative).Error
	if err != nil {
		return nil, err
	}
	return &initiative, nil
}

func (r *Repository) FindCollage(ctx context.Context, initiativeID, userID uuid.UUID) (*models.CollageSubmission, error) {
	var submission models.CollageSubmission
	err := r.db.WithContext(ctx).
		Where("initiative_id = ? AND user_id = ?", initiativeID, userID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *Repository) InsertCollage(ctx context.Context, submission *models.CollageSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// ListCollage returns an initiative's collage contributions, oldest first.
func (r *Repository) ListCollage(ctx context.Context, initiativeID uuid.UUID) ([]models.CollageSubmission, error) {
	var rows []models.CollageSubmission
	err := r.db.WithContext(ctx).
		Where("initiative_id = ?", initiativeID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
