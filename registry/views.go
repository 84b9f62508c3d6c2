package registry

import (
	"sort"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

// PlanView is an action plan with its overdue flag for the current date.
type PlanView struct {
	models.ActionPlan
	Overdue bool `json:"overdue"`
}

// ItemView is what a viewer sees of an entry. The derived fields are
// computed on every read and never stored.
type ItemView struct {
	models.RegistryItem
	ActionPlans     []PlanView `json:"actionPlans"`
	IsOwner         bool       `json:"isOwner"`
	NeedsActionPlan bool       `json:"needsActionPlan"`
}

func newItemView(actor models.Actor, item models.RegistryItem, today time.Time) ItemView {
	v := ItemView{
		RegistryItem:    item.Clone(),
		ActionPlans:     make([]PlanView, 0, len(item.ActionPlans)),
		IsOwner:         actor.Owns(item.Section),
		NeedsActionPlan: workflow.NeedsActionPlan(actor, item),
	}
	for _, p := range v.RegistryItem.ActionPlans {
		v.ActionPlans = append(v.ActionPlans, PlanView{ActionPlan: p, Overdue: workflow.IsOverdue(p, today)})
	}
	return v
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Type    models.ItemType
	Status  models.ItemStatus
	Section string
}

func (f Filter) match(item models.RegistryItem) bool {
	return (f.Type == "" || item.Type == f.Type) &&
		(f.Status == "" || item.Status == f.Status) &&
		(f.Section == "" || item.Section == f.Section)
}

// Summary is the dashboard aggregation. Levels use the scoring table only.
type Summary struct {
	Total           int                       `json:"total"`
	ByType          map[models.ItemType]int   `json:"byType"`
	ByStatus        map[models.ItemStatus]int `json:"byStatus"`
	BySection       map[string]int            `json:"bySection"`
	ByLevel         map[models.RiskLevel]int  `json:"byLevel"`
	ByResidualLevel map[models.RiskLevel]int  `json:"byResidualLevel"`
	ActionPlans     map[models.PlanStatus]int `json:"actionPlans"`
	OverduePlans    int                       `json:"overduePlans"`
}

func Summarize(items []models.RegistryItem, today time.Time) Summary {
	s := Summary{
		ByType:          map[models.ItemType]int{models.TypeRisk: 0, models.TypeOpportunity: 0},
		ByStatus:        map[models.ItemStatus]int{},
		BySection:       map[string]int{},
		ByLevel:         map[models.RiskLevel]int{},
		ByResidualLevel: map[models.RiskLevel]int{},
		ActionPlans:     map[models.PlanStatus]int{},
	}
	for _, lvl := range models.RiskLevels {
		s.ByLevel[lvl] = 0
		s.ByResidualLevel[lvl] = 0
	}
	for _, st := range []models.ItemStatus{models.StatusImplementation, models.StatusIQAVerification, models.StatusClosed} {
		s.ByStatus[st] = 0
	}

	for _, item := range items {
		s.Total++
		s.ByType[item.Type]++
		s.ByStatus[item.Status]++
		s.BySection[item.Section]++
		if item.Risk != nil {
			s.ByLevel[item.Risk.Level()]++
		}
		if item.Residual != nil {
			s.ByResidualLevel[item.Residual.Level()]++
		}
		for _, p := range item.ActionPlans {
			s.ActionPlans[p.Status.Normalize()]++
			if workflow.IsOverdue(p, today) {
				s.OverduePlans++
			}
		}
	}
	return s
}

// OverduePlan is one row of the overdue report.
type OverduePlan struct {
	ItemID            string            `json:"itemId"`
	Type              models.ItemType   `json:"type"`
	Section           string            `json:"section"`
	Process           string            `json:"process"`
	PlanID            string            `json:"planId"`
	Description       string            `json:"description"`
	ResponsiblePerson string            `json:"responsiblePerson,omitempty"`
	TargetDate        string            `json:"targetDate"`
	Status            models.PlanStatus `json:"status"`
}

// Overdue lists overdue plans, oldest target date first.
func Overdue(items []models.RegistryItem, today time.Time) []OverduePlan {
	out := []OverduePlan{}
	for _, item := range items {
		for _, p := range item.ActionPlans {
			if !workflow.IsOverdue(p, today) {
				continue
			}
			out = append(out, OverduePlan{
				ItemID:            item.ID,
				Type:              item.Type,
				Section:           item.Section,
				Process:           item.Process,
				PlanID:            p.ID,
				Description:       p.Description,
				ResponsiblePerson: p.ResponsiblePerson,
				TargetDate:        p.TargetDate,
				Status:            p.Status.Normalize(),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TargetDate < out[j].TargetDate })
	return out
}
