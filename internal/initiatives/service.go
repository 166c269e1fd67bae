package initiatives

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/internal/events"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

const (
	uniqueCollageIndex      = "ux_collage_submissions_initiative_user"
	alreadySubmittedMessage = "already submitted"
)

// Service lists initiatives and collects collage contributions.
type Service interface {
	List(ctx context.Context) ([]InitiativeDTO, error)
	Get(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*InitiativeDTO, error)
	SubmitCollage(ctx context.Context, userID, initiativeID uuid.UUID, req CollageSubmitRequest) (*CollageDTO, error)
	ListCollage(ctx context.Context, initiativeID uuid.UUID) ([]CollageDTO, error)
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	DB     *db.Client
	Events events.Service
	Logger *logger.Logger
}

type service struct {
	db     *db.Client
	events events.Service
	logg   *logger.Logger
}

// NewService constructs the initiative service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "event service required")
	}
	return &service{
		db:     params.DB,
		events: params.Events,
		logg:   params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context) ([]InitiativeDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list initiatives")
	}
	out := make([]InitiativeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// Get returns the initiative detail with its approved events and their
// attendance tallies.
func (s *service) Get(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*InitiativeDTO, error) {
	initiative, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "initiative not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup initiative")
	}

	dto := FromModel(initiative)
	dto.Events, err = s.events.ListForInitiative(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// SubmitCollage adds the caller's photo to the collage, once per user per
// initiative.
func (s *service) SubmitCollage(ctx context.Context, userID, initiativeID uuid.UUID, req CollageSubmitRequest) (*CollageDTO, error) {
	if req.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}

	repo := NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, initiativeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "initiative not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup initiative")
	}

	if _, err := repo.FindCollage(ctx, initiativeID, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadySubmittedMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing contribution")
	}

	submission := models.CollageSubmission{
		InitiativeID: initiativeID,
		UserID:       userID,
		ImageURL:     req.ImageURL,
	}
	if err := repo.InsertCollage(ctx, &submission); err != nil {
		if db.IsUniqueViolation(err, uniqueCollageIndex) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadySubmittedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert contribution")
	}
	return collageFromModel(&submission), nil
}

func (s *service) ListCollage(ctx context.Context, initiativeID uuid.UUID) ([]CollageDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListCollage(ctx, initiativeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list collage")
	}
	out := make([]CollageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *collageFromModel(&rows[i]))
	}
	return out, nil
}
