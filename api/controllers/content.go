package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/api/responses"
	"github.com/postlane/postlane-backend/api/validators"
	"github.com/postlane/postlane-backend/internal/content"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/logger"
)

type contentResponse struct {
	ID                 uuid.UUID            `json:"id"`
	BrandID            uuid.UUID            `json:"brand_id"`
	TeamID             uuid.UUID            `json:"team_id"`
	CreatedByUserID    uuid.UUID            `json:"created_by_user_id"`
	Title              string               `json:"title"`
	Body               string               `json:"body"`
	MediaURLs          []string             `json:"media_urls"`
	Status             enums.ContentStatus  `json:"status"`
	StatusBeforeDelete *enums.ContentStatus `json:"status_before_delete,omitempty"`
	ScheduledFor       *time.Time           `json:"scheduled_for,omitempty"`
	IntegrationIDs     []uuid.UUID          `json:"integration_ids"`
	PublishedAt        *time.Time           `json:"published_at,omitempty"`
	Version            int64                `json:"version"`
	Deleted            bool                 `json:"deleted"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

func contentResponseFromModel(m *models.Content) contentResponse {
	return contentResponse{
		ID:                 m.ID,
		BrandID:            m.BrandID,
		TeamID:             m.TeamID,
		CreatedByUserID:    m.CreatedByUserID,
		Title:              m.Title,
		Body:               m.Body,
		MediaURLs:          append([]string{}, m.MediaURLs...),
		Status:             m.Status,
		StatusBeforeDelete: m.StatusBeforeDelete,
		ScheduledFor:       m.ScheduledFor,
		IntegrationIDs:     append([]uuid.UUID{}, m.IntegrationIDs...),
		PublishedAt:        m.PublishedAt,
		Version:            m.Version,
		Deleted:            m.IsDeleted(),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type contentListResponse struct {
	Items []contentResponse `json:"items"`
	Total int64             `json:"total"`
}

// ContentCreate starts a new draft under a brand.
func ContentCreate(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input content.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), teamID, userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, contentResponseFromModel(created))
	}
}

// ContentGet returns one content item, including soft-deleted ones.
func ContentGet(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), teamID, userID, contentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contentResponseFromModel(item))
	}
}

// ContentUpdate patches draft fields.
func ContentUpdate(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input content.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), teamID, userID, contentID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contentResponseFromModel(updated))
	}
}

// ContentList pages through a team's content with optional filters.
func ContentList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opts := content.ListOptions{TeamID: teamID}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseContentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			opts.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("brandId")); raw != "" {
			brandID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid brandId"))
				return
			}
			opts.BrandID = &brandID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("includeDeleted")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid includeDeleted value"))
				return
			}
			opts.IncludeDeleted = value
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "pageSize", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		opts.Page = page
		opts.PageSize = pageSize
		opts.SortBy = strings.TrimSpace(r.URL.Query().Get("sortBy"))
		opts.SortDescending = strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("sortDir")), "desc")

		items, total, err := svc.List(r.Context(), userID, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := contentListResponse{Items: make([]contentResponse, 0, len(items)), Total: total}
		for i := range items {
			out.Items = append(out.Items, contentResponseFromModel(&items[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ContentSubmit moves a draft or rejected item into the approval queue.
func ContentSubmit(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(logg, func(r *http.Request, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
		return svc.Submit(r.Context(), teamID, userID, contentID)
	})
}

type bulkSubmitRequest struct {
	ContentIDs []uuid.UUID `json:"content_ids" validate:"required,min=1,max=100"`
}

// ContentBulkSubmit submits many items, reporting per-item outcomes.
func ContentBulkSubmit(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkSubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BulkSubmit(r.Context(), teamID, userID, payload.ContentIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ContentApprove records an approval decision.
func ContentApprove(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return decision(logg, func(r *http.Request, teamID, userID, contentID uuid.UUID, input content.DecisionInput) (*models.Content, error) {
		return svc.Approve(r.Context(), teamID, userID, contentID, input)
	})
}

// ContentReject records a rejection decision.
func ContentReject(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return decision(logg, func(r *http.Request, teamID, userID, contentID uuid.UUID, input content.DecisionInput) (*models.Content, error) {
		return svc.Reject(r.Context(), teamID, userID, contentID, input)
	})
}

// ContentSchedule queues an approved item for a future publish.
func ContentSchedule(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input content.ScheduleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Schedule(r.Context(), teamID, userID, contentID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contentResponseFromModel(updated))
	}
}

// ContentUnschedule pulls a scheduled item back to approved.
func ContentUnschedule(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(logg, func(r *http.Request, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
		return svc.Unschedule(r.Context(), teamID, userID, contentID)
	})
}

// ContentPublish pushes an approved item out immediately.
func ContentPublish(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input content.PublishInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Publish(r.Context(), teamID, userID, contentID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contentResponseFromModel(updated))
	}
}

// ContentDelete soft-deletes any non-published item.
func ContentDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), teamID, userID, contentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ContentRestore returns a soft-deleted item to its prior status.
func ContentRestore(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(logg, func(r *http.Request, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
		return svc.Restore(r.Context(), teamID, userID, contentID)
	})
}

type approvalResponse struct {
	ID                uuid.UUID            `json:"id"`
	ContentID         uuid.UUID            `json:"content_id"`
	TeamID            uuid.UUID            `json:"team_id"`
	RequestedByUserID uuid.UUID            `json:"requested_by_user_id"`
	ApproverUserID    *uuid.UUID           `json:"approver_user_id,omitempty"`
	Status            enums.ApprovalStatus `json:"status"`
	Notes             *string              `json:"notes,omitempty"`
	DecidedAt         *time.Time           `json:"decided_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

// ContentApprovals lists the approval audit trail for one item.
func ContentApprovals(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Approvals(r.Context(), teamID, userID, contentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]approvalResponse, 0, len(rows))
		for i := range rows {
			row := rows[i]
			out = append(out, approvalResponse{
				ID:                row.ID,
				ContentID:         row.ContentID,
				TeamID:            row.TeamID,
				RequestedByUserID: row.RequestedByUserID,
				ApproverUserID:    row.ApproverUserID,
				Status:            row.Status,
				Notes:             row.Notes,
				DecidedAt:         row.DecidedAt,
				CreatedAt:         row.CreatedAt,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

func transition(logg *logger.Logger, fn func(r *http.Request, teamID, userID, contentID uuid.UUID) (*models.Content, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := fn(r, teamID, userID, contentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contentResponseFromModel(updated))
	}
}

func decision(logg *logger.Logger, fn func(r *http.Request, teamID, userID, contentID uuid.UUID, input content.DecisionInput) (*models.Content, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, userID, err := teamScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentID, err := pathUUID(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input content.DecisionInput
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &input); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		updated, err := fn(r, teamID, userID, contentID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contentResponseFromModel(updated))
	}
}
