package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/suggest"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
)

type suggestionRequest struct {
	Type        models.ItemType `json:"type"`
	Section     string          `json:"section"`
	Process     string          `json:"process"`
	Description string          `json:"description"`
}

func parseSuggestionRequest(w http.ResponseWriter, r *http.Request, actor models.Actor) (suggest.Context, bool) {
	var req suggestionRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return suggest.Context{}, false
	}
	t := models.ItemType(strings.ToUpper(string(req.Type)))
	if !t.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "type must be RISK or OPPORTUNITY")
		return suggest.Context{}, false
	}
	if strings.TrimSpace(req.Process) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "process is required")
		return suggest.Context{}, false
	}
	section := req.Section
	if section == "" {
		section = actor.Section
	}
	return suggest.Context{Type: t, Section: section, Process: req.Process, Description: req.Description}, true
}

// SuggestDescriptions returns candidate descriptions. Nothing is saved.
func SuggestDescriptions(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	in, ok := parseSuggestionRequest(w, r, actor)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	out, err := suggester.Descriptions(ctx, in)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"suggestions": out})
}

// SuggestActionPlans returns candidate plan drafts. Nothing is saved.
func SuggestActionPlans(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	in, ok := parseSuggestionRequest(w, r, actor)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	out, err := suggester.ActionPlans(ctx, in)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"suggestions": out})
}
