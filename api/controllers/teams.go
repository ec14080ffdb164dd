package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/api/responses"
	"github.com/postlane/postlane-backend/api/validators"
	"github.com/postlane/postlane-backend/internal/teams"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/logger"
)

type teamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func teamResponseFromModel(m *models.Team) teamResponse {
	return teamResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TeamCreate provisions a new team owned by the caller.
func TeamCreate(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input teams.CreateTeamInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateTeam(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, teamResponseFromModel(created))
	}
}

// TeamGet returns the team's profile for any active member.
func TeamGet(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		team, err := svc.GetTeam(r.Context(), teamID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, teamResponseFromModel(team))
	}
}

// TeamListMine lists the caller's active memberships across teams.
func TeamListMine(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListUserTeams(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// TeamListMembers returns the roster, removed seats included.
func TeamListMembers(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		members, err := svc.ListMembers(r.Context(), teamID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}

// TeamAddMember invites a user onto the roster, charging a seat.
func TeamAddMember(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, actorID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input teams.AddMemberInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.AddMember(r.Context(), teamID, actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, member)
	}
}

// TeamRemoveMember soft-deletes a seat and releases its quota.
func TeamRemoveMember(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, actorID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveMember(r.Context(), teamID, actorID, memberID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// TeamRestoreMember re-seats a removed member, charging a seat again.
func TeamRestoreMember(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, actorID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.RestoreMember(r.Context(), teamID, actorID, memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// TeamUpdateMemberRole changes a role, reseeding the permission snapshot.
func TeamUpdateMemberRole(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, actorID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input teams.UpdateRoleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.UpdateMemberRole(r.Context(), teamID, actorID, memberID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// TeamUpdateMemberPermissions replaces a member's snapshot wholesale.
func TeamUpdateMemberPermissions(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, actorID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input teams.UpdatePermissionsInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.UpdateMemberPermissions(r.Context(), teamID, actorID, memberID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// TeamAssignBrand places a brand in a member's portfolio.
func TeamAssignBrand(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, actorID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input teams.AssignBrandInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AssignBrand(r.Context(), teamID, actorID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "assigned"})
	}
}
