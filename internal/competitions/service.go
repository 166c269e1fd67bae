package competitions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

const (
	uniqueEntryIndex = "ux_competition_submissions_entry"
	uniqueVoteIndex  = "ux_votes_user_submission"

	alreadySubmittedMessage = "already submitted"
	alreadyVotedMessage     = "already voted"
)

// Service runs the competition entry and voting workflow.
type Service interface {
	List(ctx context.Context) ([]CompetitionDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CompetitionDTO, error)
	Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*EntryDTO, error)
	Vote(ctx context.Context, userID, entryID uuid.UUID) (*VoteResponse, error)
	ListEntries(ctx context.Context, competitionID uuid.UUID, userID *uuid.UUID) ([]EntryDTO, error)
}

// ServiceParams bundles the dependencies required to build the service.
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

// NewService constructs the competition service.
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

func (s *service) List(ctx context.Context) ([]CompetitionDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListCompetitions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list competitions")
	}
	now := s.now()
	out := make([]CompetitionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], now))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CompetitionDTO, error) {
	competition, err := NewRepository(s.db.DB()).FindCompetition(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "competition not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup competition")
	}
	return FromModel(competition, s.now()), nil
}

// Submit enters the caller's approved gallery piece into a competition.
// Each piece enters a competition at most once.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*EntryDTO, error) {
	repo := NewRepository(s.db.DB())

	if _, err := repo.FindCompetition(ctx, req.CompetitionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "competition not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup competition")
	}

	submission, err := repo.FindGallerySubmission(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gallery submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup gallery submission")
	}
	if submission.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only enter your own artwork")
	}
	if !submission.IsApproved {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork must be approved before entering")
	}

	if _, err := repo.FindEntry(ctx, req.CompetitionID, req.SubmissionID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadySubmittedMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing entry")
	}

	entry := models.CompetitionSubmission{
		CompetitionID: req.CompetitionID,
		SubmissionID:  req.SubmissionID,
		UserID:        userID,
	}
	if err := repo.InsertEntry(ctx, &entry); err != nil {
		if db.IsUniqueViolation(err, uniqueEntryIndex) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadySubmittedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert entry")
	}
	entry.Submission = submission

	dto := entryFromModel(&entry)
	return &dto, nil
}

// Vote records the caller's vote on an entry. Success moves the tally up by
// exactly one; a repeat vote conflicts.
func (s *service) Vote(ctx context.Context, userID, entryID uuid.UUID) (*VoteResponse, error) {
	repo := NewRepository(s.db.DB())

	if _, err := repo.FindEntryByID(ctx, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup entry")
	}

	if _, err := repo.FindVote(ctx, userID, entryID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadyVotedMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing vote")
	}

	vote := models.Vote{UserID: userID, SubmissionID: entryID}
	if err := repo.InsertVote(ctx, &vote); err != nil {
		if db.IsUniqueViolation(err, uniqueVoteIndex) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadyVotedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert vote")
	}

	count, err := repo.CountVotes(ctx, entryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count votes")
	}
	return &VoteResponse{SubmissionID: entryID, VoteCount: count}, nil
}

// ListEntries returns a competition's entries with tallies. When userID is
// set each entry carries whether that user already voted on it.
func (s *service) ListEntries(ctx context.Context, competitionID uuid.UUID, userID *uuid.UUID) ([]EntryDTO, error) {
	repo := NewRepository(s.db.DB())

	rows, err := repo.ListEntries(ctx, competitionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list entries")
	}

	entryIDs := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		entryIDs = append(entryIDs, rows[i].ID)
	}

	counts, err := repo.VoteCounts(ctx, entryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tally votes")
	}

	voted := map[uuid.UUID]bool{}
	if userID != nil && *userID != uuid.Nil {
		voted, err = repo.VotedSubmissions(ctx, *userID, entryIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user votes")
		}
	}

	out := make([]EntryDTO, 0, len(rows))
	for i := range rows {
		dto := entryFromModel(&rows[i])
		dto.VoteCount = counts[rows[i].ID]
		dto.VotedByMe = voted[rows[i].ID]
		out = append(out, dto)
	}
	return out, nil
}
