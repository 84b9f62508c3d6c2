package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

// IsOverdue reports whether a plan still awaiting the owner is past its target
// date. Plans without a parseable target date are never overdue.
func IsOverdue(p models.ActionPlan, today time.Time) bool {
	switch p.Status {
	case models.PlanCompleted, models.PlanForVerification:
		return false
	}
	if p.TargetDate == "" {
		return false
	}
	target, err := time.Parse(models.DateLayout, p.TargetDate)
	if err != nil {
		return false
	}
	return target.Before(dateOnly(today))
}

func (e *Engine) IsOverdue(p models.ActionPlan) bool {
	return IsOverdue(p, e.Today())
}

// OverduePlans returns the ids of the item's overdue plans.
func (e *Engine) OverduePlans(item models.RegistryItem) []string {
	today := e.Today()
	var ids []string
	for _, p := range item.ActionPlans {
		if IsOverdue(p, today) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func validatePlanDraft(op string, t models.ItemType, d models.PlanDraft) error {
	if !t.AllowsStrategy(d.Strategy) {
		return invalid(op, "strategy %q is not valid for %s entries", d.Strategy, t)
	}
	if strings.TrimSpace(d.Description) == "" {
		return invalid(op, "action plan description is required")
	}
	if d.TargetDate != "" {
		if _, err := time.Parse(models.DateLayout, d.TargetDate); err != nil {
			return invalid(op, "target date must be YYYY-MM-DD")
		}
	}
	return nil
}

func (e *Engine) newPlan(d models.PlanDraft) models.ActionPlan {
	return models.ActionPlan{
		ID:                e.newID(),
		Strategy:          d.Strategy,
		Description:       strings.TrimSpace(d.Description),
		Evidence:          d.Evidence,
		ResponsiblePerson: d.ResponsiblePerson,
		TargetDate:        d.TargetDate,
		Status:            models.PlanForImplementation,
	}
}

// requireOwnerInImplementation guards every owner edit of an entry.
func requireOwnerInImplementation(op string, actor models.Actor, item models.RegistryItem) error {
	if !actor.Owns(item.Section) {
		return forbidden(op, "only the %s process owner may do this", item.Section)
	}
	if item.Status != models.StatusImplementation {
		return notAllowed(op, "entry is %s, not %s", item.Status, models.StatusImplementation)
	}
	return nil
}

// AddPlan appends a new FOR_IMPLEMENTATION plan.
func (e *Engine) AddPlan(actor models.Actor, item models.RegistryItem, d models.PlanDraft) (models.RegistryItem, error) {
	const op = "add action plan"
	if err := requireOwnerInImplementation(op, actor, item); err != nil {
		return item, err
	}
	if err := validatePlanDraft(op, item.Type, d); err != nil {
		return item, err
	}
	plan := e.newPlan(d)
	out := item.Clone()
	out.ActionPlans = append(out.ActionPlans, plan)
	return e.AppendEvent(out, fmt.Sprintf("%s: %s", EventPlanAdded, plan.Description), actor.Name), nil
}

// RemovePlan drops a plan by id. Removing the last plan is allowed; the
// mandatory plan rule is only checked when an entry is created.
func (e *Engine) RemovePlan(actor models.Actor, item models.RegistryItem, planID string) (models.RegistryItem, error) {
	const op = "remove action plan"
	if err := requireOwnerInImplementation(op, actor, item); err != nil {
		return item, err
	}
	idx := item.PlanIndex(planID)
	if idx < 0 {
		return item, newError(op, ErrNotFound, "action plan %s not found", planID)
	}
	removed := item.ActionPlans[idx]
	out := item.Clone()
	out.ActionPlans = append(out.ActionPlans[:idx], out.ActionPlans[idx+1:]...)
	return e.AppendEvent(out, fmt.Sprintf("%s: %s", EventPlanRemoved, removed.Description), actor.Name), nil
}

// Submission is the owner's completion report for one plan.
type Submission struct {
	Remarks            string
	DelayJustification string
	// Residual is the reassessed likelihood/severity; required for risks.
	Residual *models.Score
}

// DelayPrefix formats the justification prepended to an overdue plan's remarks.
func DelayPrefix(reason string) string {
	return fmt.Sprintf("[DELAY JUSTIFICATION: %s]", reason)
}

// SubmitPlan moves a FOR_IMPLEMENTATION or REVISION_REQUIRED plan to
// FOR_VERIFICATION. An overdue plan needs a delay justification. For risks the
// residual assessment is recorded on the entry in the same update.
func (e *Engine) SubmitPlan(actor models.Actor, item models.RegistryItem, planID string, sub Submission) (models.RegistryItem, error) {
	const op = "submit action plan"
	if err := requireOwnerInImplementation(op, actor, item); err != nil {
		return item, err
	}
	idx := item.PlanIndex(planID)
	if idx < 0 {
		return item, newError(op, ErrNotFound, "action plan %s not found", planID)
	}
	plan := item.ActionPlans[idx]
	switch plan.Status.Normalize() {
	case models.PlanForImplementation, models.PlanRevisionRequired:
	default:
		return item, notAllowed(op, "action plan is %s", plan.Status)
	}

	remarks := strings.TrimSpace(sub.Remarks)
	if e.IsOverdue(plan) {
		reason := strings.TrimSpace(sub.DelayJustification)
		if reason == "" {
			return item, invalid(op, "action plan is overdue, a delay justification is required")
		}
		remarks = strings.TrimSpace(DelayPrefix(reason) + " " + remarks)
	}

	var residual *models.Score
	if item.Type == models.TypeRisk {
		if sub.Residual == nil {
			return item, invalid(op, "residual likelihood and severity are required for risks")
		}
		var err error
		if residual, err = newScore(op, "residual", sub.Residual.Likelihood, sub.Residual.Severity); err != nil {
			return item, err
		}
	}

	out := item.Clone()
	out.ActionPlans[idx].Status = models.PlanForVerification
	out.ActionPlans[idx].CompletionRemarks = remarks
	if residual != nil {
		out.Residual = residual
	}
	return e.AppendEvent(out, EventPlanSubmitted, actor.Name), nil
}

// ReviewPlan records IQA's decision on a FOR_VERIFICATION plan. When the last
// open plan is verified the entry moves to IQA_VERIFICATION; nothing else
// leads there.
func (e *Engine) ReviewPlan(actor models.Actor, item models.RegistryItem, planID string, outcome models.PlanStatus, remarks string) (models.RegistryItem, error) {
	const op = "review action plan"
	if !actor.IQA {
		return item, forbidden(op, "only IQA may verify action plans")
	}
	if item.Status != models.StatusImplementation {
		return item, notAllowed(op, "entry is %s, not %s", item.Status, models.StatusImplementation)
	}
	idx := item.PlanIndex(planID)
	if idx < 0 {
		return item, newError(op, ErrNotFound, "action plan %s not found", planID)
	}
	if item.ActionPlans[idx].Status != models.PlanForVerification {
		return item, notAllowed(op, "action plan is %s, not %s", item.ActionPlans[idx].Status, models.PlanForVerification)
	}

	out := item.Clone()
	var label string
	switch outcome {
	case models.PlanCompleted:
		out.ActionPlans[idx].Status = models.PlanCompleted
		label = EventPlanVerified
		if out.AllPlansCompleted() {
			out.Status = models.StatusIQAVerification
		}
	case models.PlanRevisionRequired:
		out.ActionPlans[idx].Status = models.PlanRevisionRequired
		out.ActionPlans[idx].VerificationRemarks = strings.TrimSpace(remarks)
		label = EventPlanRejected
	default:
		return item, invalid(op, "outcome must be %s or %s", models.PlanCompleted, models.PlanRevisionRequired)
	}
	return e.AppendEvent(out, label, actor.Name), nil
}
