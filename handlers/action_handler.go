// handlers/action_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

type submitPlanRequest struct {
	Remarks            string `json:"remarks"`
	DelayJustification string `json:"delayJustification"`
	ResidualLikelihood *int   `json:"residualLikelihood"`
	ResidualSeverity   *int   `json:"residualSeverity"`
}

type reviewPlanRequest struct {
	Outcome models.PlanStatus `json:"outcome"`
	Remarks string            `json:"remarks"`
}

// normalizePlanDraft accepts strategies in any case.
func normalizePlanDraft(d models.PlanDraft) models.PlanDraft {
	d.Strategy = models.Strategy(strings.ToUpper(strings.TrimSpace(string(d.Strategy))))
	return d
}

func normalizePlanDrafts(drafts []models.PlanDraft) []models.PlanDraft {
	out := make([]models.PlanDraft, len(drafts))
	for i, d := range drafts {
		out[i] = normalizePlanDraft(d)
	}
	return out
}

// AddActionPlan appends a plan to an entry in implementation.
func AddActionPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var draft models.PlanDraft
	if err := utils.ParseJSON(r, &draft); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	item, err := registrySvc.AddPlan(r.Context(), actor, mux.Vars(r)["id"], normalizePlanDraft(draft))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

func RemoveActionPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	item, err := registrySvc.RemovePlan(r.Context(), actor, vars["id"], vars["planId"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}

// SubmitActionPlan marks a plan done and sends it to IQA. Risks carry the
// residual likelihood and severity.
func SubmitActionPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req submitPlanRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	sub := workflow.Submission{
		Remarks:            req.Remarks,
		DelayJustification: req.DelayJustification,
	}
	if req.ResidualLikelihood != nil && req.ResidualSeverity != nil {
		sub.Residual = &models.Score{Likelihood: *req.ResidualLikelihood, Severity: *req.ResidualSeverity}
	}

	vars := mux.Vars(r)
	item, err := registrySvc.SubmitPlan(r.Context(), actor, vars["id"], vars["planId"], sub)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}

// ReviewActionPlan is IQA's COMPLETED or REVISION_REQUIRED decision on a plan.
func ReviewActionPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req reviewPlanRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	outcome := models.PlanStatus(strings.ToUpper(string(req.Outcome)))

	vars := mux.Vars(r)
	item, err := registrySvc.ReviewPlan(r.Context(), actor, vars["id"], vars["planId"], outcome, req.Remarks)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}
