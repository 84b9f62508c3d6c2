package handlers

import (
	"net/http"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
)

// GetDashboardSummary aggregates the registry by status, level and section.
func GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentActor(w, r); !ok {
		return
	}
	summary, err := registrySvc.Summary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

// GetOverduePlans lists action plans past their target date.
func GetOverduePlans(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentActor(w, r); !ok {
		return
	}
	plans, err := registrySvc.Overdue(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"overdue": plans,
		"total":   len(plans),
	})
}
