package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/api/responses"
	"github.com/postlane/postlane-backend/api/validators"
	"github.com/postlane/postlane-backend/internal/brands"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/logger"
)

type brandResponse struct {
	ID               uuid.UUID  `json:"id"`
	TeamID           uuid.UUID  `json:"team_id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description,omitempty"`
	LogoURL          *string    `json:"logo_url,omitempty"`
	AssignedMemberID *uuid.UUID `json:"assigned_member_id,omitempty"`
	Retired          bool       `json:"retired"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func brandResponseFromModel(m *models.Brand) brandResponse {
	return brandResponse{
		ID:               m.ID,
		TeamID:           m.TeamID,
		Name:             m.Name,
		Description:      m.Description,
		LogoURL:          m.LogoURL,
		AssignedMemberID: m.AssignedMemberID,
		Retired:          m.IsDeleted(),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// BrandCreate adds a brand to the team.
func BrandCreate(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input brands.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), teamID, userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, brandResponseFromModel(created))
	}
}

// BrandGet returns one live brand.
func BrandGet(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandID, err := pathUUID(r, "brandId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brand, err := svc.Get(r.Context(), teamID, userID, brandID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brandResponseFromModel(brand))
	}
}

// BrandList returns the team's brands ordered by name.
func BrandList(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), teamID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]brandResponse, 0, len(items))
		for i := range items {
			out = append(out, brandResponseFromModel(&items[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// BrandUpdate edits a live brand's fields.
func BrandUpdate(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandID, err := pathUUID(r, "brandId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input brands.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), teamID, userID, brandID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brandResponseFromModel(updated))
	}
}

// BrandDelete retires a brand with no live content.
func BrandDelete(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandID, err := pathUUID(r, "brandId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), teamID, userID, brandID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "retired"})
	}
}

// BrandRestore brings a retired brand back.
func BrandRestore(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandID, err := pathUUID(r, "brandId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restored, err := svc.Restore(r.Context(), teamID, userID, brandID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brandResponseFromModel(restored))
	}
}
