package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/registry"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

type createItemRequest struct {
	Type            models.ItemType    `json:"type"`
	Section         string             `json:"section"`
	Process         string             `json:"process"`
	Source          string             `json:"source"`
	Description     string             `json:"description"`
	DateIdentified  string             `json:"dateIdentified"`
	Likelihood      int                `json:"likelihood"`
	Severity        int                `json:"severity"`
	ExpectedBenefit models.Grade       `json:"expectedBenefit"`
	Feasibility     models.Grade       `json:"feasibility"`
	ActionPlans     []models.PlanDraft `json:"actionPlans"`
}

type updateItemRequest struct {
	Section         *string       `json:"section"`
	Process         *string       `json:"process"`
	Source          *string       `json:"source"`
	Description     *string       `json:"description"`
	DateIdentified  *string       `json:"dateIdentified"`
	Likelihood      *int          `json:"likelihood"`
	Severity        *int          `json:"severity"`
	ExpectedBenefit *models.Grade `json:"expectedBenefit"`
	Feasibility     *models.Grade `json:"feasibility"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

// ListItems returns the registry, optionally filtered by type, status and section.
func ListItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := registry.Filter{
		Type:    models.ItemType(strings.ToUpper(q.Get("type"))),
		Status:  models.ItemStatus(strings.ToUpper(q.Get("status"))),
		Section: q.Get("section"),
	}
	items, err := registrySvc.List(r.Context(), actor, filter)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

func CreateItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req createItemRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	item, err := registrySvc.Create(r.Context(), actor, workflow.Draft{
		Type:            models.ItemType(strings.ToUpper(string(req.Type))),
		Section:         req.Section,
		Process:         req.Process,
		Source:          req.Source,
		Description:     req.Description,
		DateIdentified:  req.DateIdentified,
		Likelihood:      req.Likelihood,
		Severity:        req.Severity,
		ExpectedBenefit: models.Grade(strings.ToUpper(string(req.ExpectedBenefit))),
		Feasibility:     models.Grade(strings.ToUpper(string(req.Feasibility))),
		ActionPlans:     normalizePlanDrafts(req.ActionPlans),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

func GetItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	item, err := registrySvc.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}

// UpdateItem edits entry details; omitted fields are left unchanged.
func UpdateItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	item, err := registrySvc.EditDetails(r.Context(), actor, mux.Vars(r)["id"], workflow.DetailsEdit{
		Section:         req.Section,
		Process:         req.Process,
		Source:          req.Source,
		Description:     req.Description,
		DateIdentified:  req.DateIdentified,
		Likelihood:      req.Likelihood,
		Severity:        req.Severity,
		ExpectedBenefit: req.ExpectedBenefit,
		Feasibility:     req.Feasibility,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}

// DeleteItem removes an entry after password confirmation.
func DeleteItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req passwordRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	id := mux.Vars(r)["id"]
	if err := registrySvc.Delete(r.Context(), actor, id, req.Password); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// GetAuditTrail returns the entry's events, most recent first.
func GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentActor(w, r); !ok {
		return
	}
	trail, err := registrySvc.AuditTrail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"auditTrail": trail,
	})
}
