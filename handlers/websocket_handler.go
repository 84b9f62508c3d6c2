package handlers

import (
	"net/http"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/middleware"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
)

// HandleWebSocket authenticates the token query parameter and joins the
// session to the hub.
func HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	tokenString := middleware.BearerToken(r)
	if tokenString == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication token required")
		return
	}
	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if hub == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Realtime updates unavailable")
		return
	}
	hub.Serve(w, r, claims.Actor())
}
