// handlers/auth_handler.go
package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
)

type userResponse struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Section string `json:"section,omitempty"`
	IsIQA   bool   `json:"isIQA"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{Name: u.Name, Role: u.Role, Section: u.Section, IsIQA: u.IsIQA()}
}

// Login handles user authentication
func Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := utils.ParseJSON(r, &creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	creds.Name = strings.TrimSpace(creds.Name)
	if creds.Name == "" || creds.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and password are required")
		return
	}

	user, err := directory.Verify(creds.Name, creds.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid name or password")
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Printf("JWT generation error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// GetCurrentUser echoes the identity carried by the token.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	role := models.RoleProcessOwner
	if actor.IQA {
		role = models.RoleIQA
	}
	utils.RespondWithJSON(w, http.StatusOK, userResponse{
		Name:    actor.Name,
		Role:    role,
		Section: actor.Section,
		IsIQA:   actor.IQA,
	})
}
