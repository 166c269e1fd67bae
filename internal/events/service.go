package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

const (
	uniqueRSVPIndex = "ux_event_rsvps_event_user"

	// countFanOutLimit bounds the concurrent tally queries per listing.
	countFanOutLimit = 8
)

// Service lists events and records RSVPs.
type Service interface {
	ListUpcoming(ctx context.Context, userID *uuid.UUID) ([]EventDTO, error)
	ListForInitiative(ctx context.Context, initiativeID uuid.UUID, userID *uuid.UUID) ([]EventDTO, error)
	RSVP(ctx context.Context, userID, eventID uuid.UUID, req RSVPRequest) (*RSVPDTO, error)
}

// ServiceParams bundles the dependencies required to build an event service.
type ServiceParams struct {
	DB     *db.Client
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	db   *db.Client
	logg *logger.Logger
	now  func() time.Time
}

// NewService constructs the event service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:   params.DB,
		logg: params.Logger,
		now:  now,
	}, nil
}

// ListUpcoming returns approved events from now on, each with its attending
// tally. Tallies are fetched concurrently with a bounded fan-out.
func (s *service) ListUpcoming(ctx context.Context, userID *uuid.UUID) ([]EventDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListUpcomingApproved(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list upcoming events")
	}
	return s.decorate(ctx, rows, userID)
}

// ListForInitiative returns an initiative's approved events with tallies.
func (s *service) ListForInitiative(ctx context.Context, initiativeID uuid.UUID, userID *uuid.UUID) ([]EventDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListByInitiative(ctx, initiativeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list initiative events")
	}
	return s.decorate(ctx, rows, userID)
}

func (s *service) decorate(ctx context.Context, rows []models.Event, userID *uuid.UUID) ([]EventDTO, error) {
	repo := NewRepository(s.db.DB())

	out := make([]EventDTO, len(rows))
	eventIDs := make([]uuid.UUID, len(rows))
	for i := range rows {
		out[i] = *FromModel(&rows[i])
		eventIDs[i] = rows[i].ID
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(countFanOutLimit)
	for i := range out {
		group.Go(func() error {
			count, err := repo.CountAttending(groupCtx, out[i].ID)
			if err != nil {
				return err
			}
			out[i].AttendingCount = count
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tally attendance")
	}

	if userID != nil && *userID != uuid.Nil {
		statuses, err := repo.RSVPsByUser(ctx, *userID, eventIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user rsvps")
		}
		for i := range out {
			if status, ok := statuses[out[i].ID]; ok {
				st := status
				out[i].MyStatus = &st
			}
		}
	}
	return out, nil
}

// RSVP records or updates the caller's response. The row is upserted: a
// second response for the same event replaces the first one's status.
func (s *service) RSVP(ctx context.Context, userID, eventID uuid.UUID, req RSVPRequest) (*RSVPDTO, error) {
	status, err := enums.ParseRSVPStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse rsvp status")
	}

	repo := NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup event")
	}

	now := s.now()
	if existing, err := repo.FindRSVP(ctx, eventID, userID); err == nil {
		if err := repo.UpdateRSVPStatus(ctx, eventID, userID, status, now); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update rsvp")
		}
		existing.Status = status
		existing.UpdatedAt = now
		return rsvpFromModel(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup rsvp")
	}

	rsvp := models.EventRSVP{EventID: eventID, UserID: userID, Status: status}
	if err := repo.InsertRSVP(ctx, &rsvp); err != nil {
		if db.IsUniqueViolation(err, uniqueRSVPIndex) {
			// Lost the insert race to a concurrent response; fall back
			// to updating the existing row.
			if err := repo.UpdateRSVPStatus(ctx, eventID, userID, status, now); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update rsvp after conflict")
			}
			rsvp.UpdatedAt = now
			return rsvpFromModel(&rsvp), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert rsvp")
	}
	return rsvpFromModel(&rsvp), nil
}
