package controllers

import (
	"net/http"

	"github.com/malehdhliso/chartedart-backend/api/responses"
	"github.com/malehdhliso/chartedart-backend/api/validators"
	"github.com/malehdhliso/chartedart-backend/internal/events"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

// EventList returns upcoming approved events with attending counts; the
// caller's own RSVP status is included when authenticated.
func EventList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed, err := svc.ListUpcoming(r.Context(), optionalCallerID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listed)
	}
}

// EventRSVP records or updates the caller's RSVP for an event.
func EventRSVP(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eventID, err := pathUUID(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req events.RSVPRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RSVP(r.Context(), userID, eventID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
