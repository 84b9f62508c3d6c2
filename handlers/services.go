// handlers/services.go
package handlers

import (
	"context"
	"net/http"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/middleware"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/registry"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/suggest"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/websocket"
)

// Authenticator checks sign-in credentials.
type Authenticator interface {
	Verify(name, password string) (models.User, error)
}

// Services are the collaborators the handlers work against.
type Services struct {
	Registry  *registry.Service
	Directory Authenticator
	Suggest   *suggest.Client
	Hub       *websocket.Hub
	// Ping checks the store; nil means there is nothing to check.
	Ping    func(ctx context.Context) error
	Backend string
}

var (
	registrySvc *registry.Service
	directory   Authenticator
	suggester   *suggest.Client
	hub         *websocket.Hub
	pingStore   func(ctx context.Context) error
	backend     string
)

func InitServices(s Services) {
	registrySvc = s.Registry
	directory = s.Directory
	suggester = s.Suggest
	hub = s.Hub
	pingStore = s.Ping
	backend = s.Backend
}

// currentActor returns the signed-in actor or writes a 401.
func currentActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
	}
	return actor, ok
}
