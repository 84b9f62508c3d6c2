package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

type verifyRequest struct {
	Implementation string `json:"implementation"`
	Effectiveness  string `json:"effectiveness"`
	Remarks        string `json:"remarks"`
}

// VerifyItem records IQA's final verification: closure or rejection.
func VerifyItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req verifyRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	item, err := registrySvc.FinalVerify(r.Context(), actor, mux.Vars(r)["id"], workflow.Verdict{
		Implementation: workflow.Implementation(strings.ToUpper(req.Implementation)),
		Effectiveness:  workflow.Effectiveness(strings.ToUpper(req.Effectiveness)),
		Remarks:        req.Remarks,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}

// ReopenItem returns a closed entry to implementation after IQA re-enters
// their password.
func ReopenItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req passwordRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	item, err := registrySvc.Reopen(r.Context(), actor, mux.Vars(r)["id"], req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}

// RequestActionPlan notifies the owning section; the entry is unchanged.
func RequestActionPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := registrySvc.RequestActionPlan(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "Action plan requested",
		"itemId":  id,
	})
}
