package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/internal/brands"
	"github.com/postlane/postlane-backend/internal/content"
	"github.com/postlane/postlane-backend/internal/notifications"
	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/internal/teams"
	pkgAuth "github.com/postlane/postlane-backend/pkg/auth"
	"github.com/postlane/postlane-backend/pkg/auth/session"
	"github.com/postlane/postlane-backend/pkg/config"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	"github.com/postlane/postlane-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubTeamsService struct {
	ownerID uuid.UUID
}

func (s stubTeamsService) CreateTeam(ctx context.Context, ownerID uuid.UUID, input teams.CreateTeamInput) (*models.Team, error) {
	panic("unimplemented")
}

func (s stubTeamsService) GetTeam(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error) {
	return &models.Team{ID: teamID, Name: "acme social", OwnerID: s.ownerID}, nil
}

func (s stubTeamsService) ListMembers(ctx context.Context, teamID, userID uuid.UUID) ([]teams.MemberDTO, error) {
	return []teams.MemberDTO{}, nil
}

func (s stubTeamsService) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]teams.MemberWithTeam, error) {
	return []teams.MemberWithTeam{}, nil
}

func (s stubTeamsService) AddMember(ctx context.Context, teamID, actorID uuid.UUID, input teams.AddMemberInput) (*teams.MemberDTO, error) {
	panic("unimplemented")
}

func (s stubTeamsService) RemoveMember(ctx context.Context, teamID, actorID, memberID uuid.UUID) error {
	panic("unimplemented")
}

func (s stubTeamsService) RestoreMember(ctx context.Context, teamID, actorID, memberID uuid.UUID) (*teams.MemberDTO, error) {
	panic("unimplemented")
}

func (s stubTeamsService) UpdateMemberRole(ctx context.Context, teamID, actorID, memberID uuid.UUID, input teams.UpdateRoleInput) (*teams.MemberDTO, error) {
	panic("unimplemented")
}

func (s stubTeamsService) UpdateMemberPermissions(ctx context.Context, teamID, actorID, memberID uuid.UUID, input teams.UpdatePermissionsInput) (*teams.MemberDTO, error) {
	panic("unimplemented")
}

func (s stubTeamsService) AssignBrand(ctx context.Context, teamID, actorID uuid.UUID, input teams.AssignBrandInput) error {
	panic("unimplemented")
}

type stubContentService struct{}

func (s stubContentService) Create(ctx context.Context, teamID, userID uuid.UUID, input content.CreateInput) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) Get(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) Update(ctx context.Context, teamID, userID, contentID uuid.UUID, input content.UpdateInput) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) List(ctx context.Context, userID uuid.UUID, opts content.ListOptions) ([]models.Content, int64, error) {
	return []models.Content{}, 0, nil
}

func (s stubContentService) Submit(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) BulkSubmit(ctx context.Context, teamID, userID uuid.UUID, contentIDs []uuid.UUID) (*content.BulkSubmitResult, error) {
	panic("unimplemented")
}

func (s stubContentService) Approve(ctx context.Context, teamID, userID, contentID uuid.UUID, input content.DecisionInput) (*models.Content, error) {
	return &models.Content{ID: contentID, TeamID: teamID, Status: enums.ContentStatusApproved, Version: 3}, nil
}

func (s stubContentService) Reject(ctx context.Context, teamID, userID, contentID uuid.UUID, input content.DecisionInput) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) Schedule(ctx context.Context, teamID, userID, contentID uuid.UUID, input content.ScheduleInput) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) Unschedule(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) Publish(ctx context.Context, teamID, userID, contentID uuid.UUID, input content.PublishInput) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) Delete(ctx context.Context, teamID, userID, contentID uuid.UUID) error {
	panic("unimplemented")
}

func (s stubContentService) Restore(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	panic("unimplemented")
}

func (s stubContentService) FireScheduledPublish(ctx context.Context, contentID uuid.UUID) error {
	panic("unimplemented")
}

func (s stubContentService) Approvals(ctx context.Context, teamID, userID, contentID uuid.UUID) ([]models.Approval, error) {
	return []models.Approval{}, nil
}

type stubBrandsService struct{}

func (s stubBrandsService) Create(ctx context.Context, teamID, userID uuid.UUID, input brands.CreateInput) (*models.Brand, error) {
	panic("unimplemented")
}

func (s stubBrandsService) Get(ctx context.Context, teamID, userID, brandID uuid.UUID) (*models.Brand, error) {
	panic("unimplemented")
}

func (s stubBrandsService) List(ctx context.Context, teamID, userID uuid.UUID) ([]models.Brand, error) {
	return []models.Brand{}, nil
}

func (s stubBrandsService) Update(ctx context.Context, teamID, userID, brandID uuid.UUID, input brands.UpdateInput) (*models.Brand, error) {
	panic("unimplemented")
}

func (s stubBrandsService) Delete(ctx context.Context, teamID, userID, brandID uuid.UUID) error {
	panic("unimplemented")
}

func (s stubBrandsService) Restore(ctx context.Context, teamID, userID, brandID uuid.UUID) (*models.Brand, error) {
	panic("unimplemented")
}

type stubQuotaService struct{}

func (s stubQuotaService) Check(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	panic("unimplemented")
}

func (s stubQuotaService) Consume(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	panic("unimplemented")
}

func (s stubQuotaService) Release(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	panic("unimplemented")
}

func (s stubQuotaService) Usage(ctx context.Context, accountID uuid.UUID) ([]quota.ResourceUsage, error) {
	return []quota.ResourceUsage{
		{Resource: enums.QuotaResourceTeamMembers, Used: 3, Limit: 10, Remaining: 7},
	}, nil
}

func (s stubQuotaService) ApplyPlanLimits(ctx context.Context, accountID uuid.UUID, planID string) error {
	panic("unimplemented")
}

type stubNotificationsService struct{}

func (s stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{Items: []models.Notification{}}, nil
}

func (s stubNotificationsService) MarkRead(ctx context.Context, teamID, notificationID uuid.UUID) error {
	panic("unimplemented")
}

func (s stubNotificationsService) MarkAllRead(ctx context.Context, teamID uuid.UUID) (int64, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, ownerID uuid.UUID) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:        cfg,
		Logger:        logg,
		DB:            stubPinger{},
		Redis:         nil,
		Sessions:      stubSessionManager{},
		Teams:         stubTeamsService{ownerID: ownerID},
		Content:       stubContentService{},
		Brands:        stubBrandsService{},
		Quota:         stubQuotaService{},
		Notifications: stubNotificationsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, teamID *uuid.UUID) string {
	t.Helper()
	payload := pkgAuth.AccessTokenPayload{
		UserID:       uuid.New(),
		ActiveTeamID: teamID,
		Role:         enums.MemberRoleTeamLeader,
		JTI:          session.NewAccessID(),
	}
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), uuid.New())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyPingsBackends(t *testing.T) {
	router := newTestRouter(testConfig(), uuid.New())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), uuid.New())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, uuid.New())
	teamID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &teamID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestTeamRoutesRejectForeignTeamToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, uuid.New())
	tokenTeam := uuid.New()
	pathTeam := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/"+pathTeam.String()+"/content", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &tokenTeam))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign team got %d", resp.Code)
	}
}

func TestTeamRoutesAcceptScopedToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, uuid.New())
	teamID := uuid.New()

	paths := []string{
		"/api/v1/teams/" + teamID.String() + "/content",
		"/api/v1/teams/" + teamID.String() + "/brands",
		"/api/v1/teams/" + teamID.String() + "/members",
		"/api/v1/teams/" + teamID.String() + "/notifications",
		"/api/v1/teams/" + teamID.String() + "/quota/usage",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &teamID))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestTeamRoutesRejectMalformedTeamID(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, uuid.New())
	teamID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/not-a-uuid/content", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &teamID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestApproveRouteReachesService(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, uuid.New())
	teamID := uuid.New()
	contentID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/"+teamID.String()+"/content/"+contentID.String()+"/approve", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &teamID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestTokenWithoutTeamCanListOwnTeams(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/teams", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
