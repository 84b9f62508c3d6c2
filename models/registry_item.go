// models/registry_item.go
package models

import (
	"time"
)

type ItemType string

const (
	TypeRisk        ItemType = "RISK"
	TypeOpportunity ItemType = "OPPORTUNITY"
)

func (t ItemType) Valid() bool {
	return t == TypeRisk || t == TypeOpportunity
}

type ItemStatus string

const (
	StatusImplementation  ItemStatus = "IMPLEMENTATION"
	StatusIQAVerification ItemStatus = "IQA_VERIFICATION"
	StatusClosed          ItemStatus = "CLOSED"

	// StatusReassessment is reserved. No transition enters it.
	StatusReassessment ItemStatus = "REASSESSMENT"
)

// Grade rates an opportunity's expected benefit or feasibility.
type Grade string

const (
	GradeLow    Grade = "LOW"
	GradeMedium Grade = "MEDIUM"
	GradeHigh   Grade = "HIGH"
)

func (g Grade) Valid() bool {
	return g == GradeLow || g == GradeMedium || g == GradeHigh
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

type RegistryItem struct {
	ID             string   `json:"id"`
	Type           ItemType `json:"type"`
	Section        string   `json:"section"`
	Process        string   `json:"process"`
	Source         string   `json:"source,omitempty"`
	Description    string   `json:"description"`
	DateIdentified string   `json:"dateIdentified,omitempty"`

	// Risk only.
	Risk     *Score `json:"risk,omitempty"`
	Residual *Score `json:"residual,omitempty"`

	// Opportunity only.
	ExpectedBenefit Grade `json:"expectedBenefit,omitempty"`
	Feasibility     Grade `json:"feasibility,omitempty"`

	ActionPlans          []ActionPlan `json:"actionPlans"`
	Status               ItemStatus   `json:"status"`
	EffectivenessRemarks string       `json:"effectivenessRemarks,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
	ClosedAt             *time.Time   `json:"closedAt,omitempty"`
	AuditTrail           []AuditEvent `json:"auditTrail"`
}

// Clone returns a deep copy, so a snapshot can be changed without touching
// the value other readers hold.
func (it RegistryItem) Clone() RegistryItem {
	out := it
	if it.Risk != nil {
		s := *it.Risk
		out.Risk = &s
	}
	if it.Residual != nil {
		s := *it.Residual
		out.Residual = &s
	}
	if it.ClosedAt != nil {
		t := *it.ClosedAt
		out.ClosedAt = &t
	}
	if it.ActionPlans != nil {
		out.ActionPlans = append(make([]ActionPlan, 0, len(it.ActionPlans)), it.ActionPlans...)
	}
	if it.AuditTrail != nil {
		out.AuditTrail = append(make([]AuditEvent, 0, len(it.AuditTrail)), it.AuditTrail...)
	}
	return out
}

// PlanIndex returns the position of the plan with the given id, or -1.
func (it RegistryItem) PlanIndex(planID string) int {
	for i := range it.ActionPlans {
		if it.ActionPlans[i].ID == planID {
			return i
		}
	}
	return -1
}

// AllPlansCompleted reports whether the item has plans and every one is COMPLETED.
func (it RegistryItem) AllPlansCompleted() bool {
	if len(it.ActionPlans) == 0 {
		return false
	}
	for _, p := range it.ActionPlans {
		if p.Status != PlanCompleted {
			return false
		}
	}
	return true
}
