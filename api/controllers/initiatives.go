package controllers

import (
	"net/http"

	"github.com/malehdhliso/chartedart-backend/api/responses"
	"github.com/malehdhliso/chartedart-backend/api/validators"
	"github.com/malehdhliso/chartedart-backend/internal/initiatives"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

// InitiativeList returns active community initiatives.
func InitiativeList(svc initiatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listed)
	}
}

// InitiativeGet returns one initiative with its approved events.
func InitiativeGet(svc initiatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "initiativeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id, optionalCallerID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// InitiativeCollageSubmit records the caller's collage contribution.
func InitiativeCollageSubmit(svc initiatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		initiativeID, err := pathUUID(r, "initiativeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req initiatives.CollageSubmitRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SubmitCollage(r.Context(), userID, initiativeID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// InitiativeCollageList returns every contribution for an initiative.
func InitiativeCollageList(svc initiatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initiativeID, err := pathUUID(r, "initiativeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listed, err := svc.ListCollage(r.Context(), initiativeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listed)
	}
}
