package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/api/responses"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/logger"
)

// TeamContext resolves the {teamId} route param, pins it against the token's
// active team, and seeds the request context. Membership and permission
// checks stay with the services.
func TeamContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "teamId")
			teamID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid team id"))
				return
			}

			if active := TeamIDFromContext(r.Context()); active != "" && active != teamID.String() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "token is not scoped to this team"))
				return
			}

			ctx := WithTeamID(r.Context(), teamID.String())
			if logg != nil {
				ctx = logg.WithField(ctx, "team_id", teamID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
