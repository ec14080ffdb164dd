package controllers

import (
	"net/http"

	"github.com/postlane/postlane-backend/api/responses"
	"github.com/postlane/postlane-backend/api/validators"
	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/internal/teams"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/logger"
)

// QuotaUsage reports per-resource consumption for the account funding the
// team. Any active member may look.
func QuotaUsage(teamSvc teams.Service, quotaSvc quota.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		team, err := teamSvc.GetTeam(r.Context(), teamID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		usage, err := quotaSvc.Usage(r.Context(), team.OwnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"account_id": team.OwnerID, "usage": usage})
	}
}

type applyPlanRequest struct {
	PlanID string `json:"plan_id" validate:"required,min=1,max=64"`
}

// QuotaApplyPlan reseeds the account's limits from a plan. Owner only;
// usage counters survive the change.
func QuotaApplyPlan(teamSvc teams.Service, quotaSvc quota.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		team, err := teamSvc.GetTeam(r.Context(), teamID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if team.OwnerID != userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only the team owner can change plan limits"))
			return
		}

		var payload applyPlanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := quotaSvc.ApplyPlanLimits(r.Context(), team.OwnerID, payload.PlanID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		usage, err := quotaSvc.Usage(r.Context(), team.OwnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"account_id": team.OwnerID, "usage": usage})
	}
}
