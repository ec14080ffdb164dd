package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/api/middleware"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
)

// teamScope pulls the team and user identifiers the middleware chain put on
// the request context. Both must be present on every team-scoped route.
func teamScope(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	rawTeam := middleware.TeamIDFromContext(r.Context())
	if rawTeam == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "team context missing")
	}
	teamID, err := uuid.Parse(rawTeam)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid team id")
	}

	userID, err := requestUser(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return teamID, userID, nil
}

func requestUser(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
