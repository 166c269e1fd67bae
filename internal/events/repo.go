package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// Repository provides event and RSVP persistence on top of a gorm handle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUpcomingApproved returns approved events on or after now, soonest
// first.
func (r *Repository) ListUpcomingApproved(ctx context.Context, now time.Time) ([]models.Event, error) {
	var rows []models.Event
	err := r.db.WithContext(ctx).
		Where("is_approved = ? AND event_date >= ?", true, now).
		Order("event_date ASC").
		Find(&rows).Error
	return rows, err
}

// ListByInitiative returns an initiative's approved events, soonest first.
func (r *Repository) ListByInitiative(ctx context.Context, initiativeID uuid.UUID) ([]models.Event, error) {
	var rows []models.Event
	err := r.db.WithContext(ctx).
		Where("initiative_id = ? AND is_approved = ?", initiativeID, true).
		Order("event_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CountAttending tallies the event's attending RSVPs.
func (r *Repository) CountAttending(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventRSVP{}).
		Where("event_id = ? AND status = ?", eventID, enums.RSVPStatusAttending).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) FindRSVP(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRSVP, error) {
	var rsvp models.EventRSVP
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&rsvp).Error
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// RSVPsByUser returns the user's responses to the given events.
func (r *Repository) RSVPsByUser(ctx context.Context, userID uuid.UUID, eventIDs []uuid.UUID) (map[uuid.UUID]enums.RSVPStatus, error) {
	statuses := make(map[uuid.UUID]enums.RSVPStatus, len(eventIDs))
	if len(eventIDs) == 0 {
		return statuses, nil
	}
	var rows []models.EventRSVP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id IN ?", userID, eventIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		statuses[row.EventID] = row.Status
	}
	return statuses, nil
}

func (r *Repository) InsertRSVP(ctx context.Context, rsvp *models.EventRSVP) error {
	return r.db.WithContext(ctx).Create(rsvp).Error
}

// UpdateRSVPStatus changes an existing response in place.
func (r *Repository) UpdateRSVPStatus(ctx context.Context, eventID, userID uuid.UUID, status enums.RSVPStatus, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.EventRSVP{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
		}).Error
}
