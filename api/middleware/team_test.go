package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func TestTeamContextResolvesParam(t *testing.T) {
	teamID := uuid.New()

	var captured string
	router := chi.NewRouter()
	router.With(TeamContext(nil)).Get("/teams/{teamId}/content", func(w http.ResponseWriter, r *http.Request) {
		captured = TeamIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/content", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured != teamID.String() {
		t.Fatalf("expected team %s got %s", teamID, captured)
	}
}

func TestTeamContextRejectsMalformedID(t *testing.T) {
	router := chi.NewRouter()
	router.With(TeamContext(nil)).Get("/teams/{teamId}/content", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/teams/not-a-uuid/content", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTeamContextRejectsForeignTeamToken(t *testing.T) {
	tokenTeam := uuid.New()
	pathTeam := uuid.New()

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithTeamID(r.Context(), tokenTeam.String())))
		})
	})
	router.With(TeamContext(nil)).Get("/teams/{teamId}/content", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/teams/"+pathTeam.String()+"/content", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestTeamContextAcceptsMatchingTeamToken(t *testing.T) {
	teamID := uuid.New()

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithTeamID(r.Context(), teamID.String())))
		})
	})
	router.With(TeamContext(nil)).Get("/teams/{teamId}/content", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/content", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
