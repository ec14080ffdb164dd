package controllers

import (
	"net/http"

	"github.com/postlane/postlane-backend/api/middleware"
	"github.com/postlane/postlane-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if team := middleware.TeamIDFromContext(r.Context()); team != "" {
			payload["team_id"] = team
		}
		responses.WriteSuccess(w, payload)
	}
}
