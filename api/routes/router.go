package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/postlane/postlane-backend/api/controllers"
	"github.com/postlane/postlane-backend/api/middleware"
	"github.com/postlane/postlane-backend/internal/brands"
	"github.com/postlane/postlane-backend/internal/content"
	"github.com/postlane/postlane-backend/internal/notifications"
	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/internal/teams"
	"github.com/postlane/postlane-backend/pkg/auth/session"
	"github.com/postlane/postlane-backend/pkg/config"
	"github.com/postlane/postlane-backend/pkg/db"
	"github.com/postlane/postlane-backend/pkg/logger"
	"github.com/postlane/postlane-backend/pkg/redis"
)

// RouterParams carries everything the API surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Sessions      session.AccessSessionChecker
	Teams         teams.Service
	Content       content.Service
	Brands        brands.Service
	Quota         quota.Service
	Notifications notifications.Service
}

// NewRouter assembles the chi router for the API binary.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	writePolicy := middleware.NewRateLimitPolicy(
		"api",
		cfg.RateLimit.WriteWindow,
		cfg.RateLimit.WriteIPLimit,
		cfg.RateLimit.WriteUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		if p.Redis != nil {
			r.Use(middleware.RateLimit(writePolicy, p.Redis, logg))
			r.Use(middleware.Idempotency(p.Redis, logg))
		}

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/me/teams", controllers.TeamListMine(p.Teams, logg))
		r.Post("/teams", controllers.TeamCreate(p.Teams, logg))

		r.Route("/teams/{teamId}", func(r chi.Router) {
			r.Use(middleware.TeamContext(logg))

			r.Get("/", controllers.TeamGet(p.Teams, logg))

			r.Route("/members", func(r chi.Router) {
				r.Get("/", controllers.TeamListMembers(p.Teams, logg))
				r.Post("/", controllers.TeamAddMember(p.Teams, logg))
				r.Delete("/{memberId}", controllers.TeamRemoveMember(p.Teams, logg))
				r.Post("/{memberId}/restore", controllers.TeamRestoreMember(p.Teams, logg))
				r.Patch("/{memberId}/role", controllers.TeamUpdateMemberRole(p.Teams, logg))
				r.Put("/{memberId}/permissions", controllers.TeamUpdateMemberPermissions(p.Teams, logg))
			})

			r.Route("/brands", func(r chi.Router) {
				r.Get("/", controllers.BrandList(p.Brands, logg))
				r.Post("/", controllers.BrandCreate(p.Brands, logg))
				r.Post("/assign", controllers.TeamAssignBrand(p.Teams, logg))
				r.Get("/{brandId}", controllers.BrandGet(p.Brands, logg))
				r.Patch("/{brandId}", controllers.BrandUpdate(p.Brands, logg))
				r.Delete("/{brandId}", controllers.BrandDelete(p.Brands, logg))
				r.Post("/{brandId}/restore", controllers.BrandRestore(p.Brands, logg))
			})

			r.Route("/content", func(r chi.Router) {
				r.Get("/", controllers.ContentList(p.Content, logg))
				r.Post("/", controllers.ContentCreate(p.Content, logg))
				r.Post("/submit", controllers.ContentBulkSubmit(p.Content, logg))
				r.Get("/{contentId}", controllers.ContentGet(p.Content, logg))
				r.Patch("/{contentId}", controllers.ContentUpdate(p.Content, logg))
				r.Delete("/{contentId}", controllers.ContentDelete(p.Content, logg))
				r.Post("/{contentId}/submit", controllers.ContentSubmit(p.Content, logg))
				r.Post("/{contentId}/approve", controllers.ContentApprove(p.Content, logg))
				r.Post("/{contentId}/reject", controllers.ContentReject(p.Content, logg))
				r.Post("/{contentId}/schedule", controllers.ContentSchedule(p.Content, logg))
				r.Post("/{contentId}/unschedule", controllers.ContentUnschedule(p.Content, logg))
				r.Post("/{contentId}/publish", controllers.ContentPublish(p.Content, logg))
				r.Post("/{contentId}/restore", controllers.ContentRestore(p.Content, logg))
				r.Get("/{contentId}/approvals", controllers.ContentApprovals(p.Content, logg))
			})

			r.Route("/quota", func(r chi.Router) {
				r.Get("/usage", controllers.QuotaUsage(p.Teams, p.Quota, logg))
				r.Post("/plan", controllers.QuotaApplyPlan(p.Teams, p.Quota, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(p.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
			})
		})
	})

	return r
}
