package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/api/responses"
	"github.com/malehdhliso/chartedart-backend/api/validators"
	"github.com/malehdhliso/chartedart-backend/internal/competitions"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

// CompetitionList returns all competitions with their derived status.
func CompetitionList(svc competitions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listed)
	}
}

// CompetitionGet returns one competition.
func CompetitionGet(svc competitions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "competitionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CompetitionEntries lists a competition's entries with vote tallies. The
// voted_by_me flag is filled only for authenticated callers.
func CompetitionEntries(svc competitions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "competitionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListEntries(r.Context(), id, optionalCallerID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

type competitionSubmitBody struct {
	SubmissionID uuid.UUID `json:"submission_id" validate:"required"`
}

// CompetitionSubmit enters one of the caller's gallery pieces into a
// competition.
func CompetitionSubmit(svc competitions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		competitionID, err := pathUUID(r, "competitionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body competitionSubmitBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Submit(r.Context(), userID, competitions.SubmitRequest{
			CompetitionID: competitionID,
			SubmissionID:  body.SubmissionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// CompetitionVote records the caller's vote for an entry.
func CompetitionVote(svc competitions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entryID, err := pathUUID(r, "entryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Vote(r.Context(), userID, entryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}
