package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/api/middleware"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
)

// callerID extracts the authenticated user's id from the request context.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// optionalCallerID returns the caller's id when present, nil for anonymous
// requests.
func optionalCallerID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
