package workflow

import (
	"strings"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

// Draft is the owner's input for a new registry entry.
type Draft struct {
	Type           models.ItemType
	Section        string
	Process        string
	Source         string
	Description    string
	DateIdentified string

	Likelihood int
	Severity   int

	ExpectedBenefit models.Grade
	Feasibility     models.Grade

	ActionPlans []models.PlanDraft
}

// Create builds a new IMPLEMENTATION entry with a single "Entry Created"
// event. At least one action plan is required for every entry type.
func (e *Engine) Create(actor models.Actor, d Draft) (models.RegistryItem, error) {
	const op = "create entry"
	if actor.IQA || actor.Section == "" {
		return models.RegistryItem{}, forbidden(op, "only a process owner may log entries")
	}
	section := strings.TrimSpace(d.Section)
	if section == "" {
		section = actor.Section
	}
	if !actor.Owns(section) {
		return models.RegistryItem{}, forbidden(op, "cannot log entries for section %s", section)
	}
	if !d.Type.Valid() {
		return models.RegistryItem{}, invalid(op, "type must be %s or %s", models.TypeRisk, models.TypeOpportunity)
	}
	if strings.TrimSpace(d.Process) == "" {
		return models.RegistryItem{}, invalid(op, "process is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return models.RegistryItem{}, invalid(op, "description is required")
	}
	dateIdentified := d.DateIdentified
	if dateIdentified == "" {
		dateIdentified = e.Today().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, dateIdentified); err != nil {
		return models.RegistryItem{}, invalid(op, "date identified must be YYYY-MM-DD")
	}

	item := models.RegistryItem{
		Type:           d.Type,
		Section:        section,
		Process:        strings.TrimSpace(d.Process),
		Source:         strings.TrimSpace(d.Source),
		Description:    strings.TrimSpace(d.Description),
		DateIdentified: dateIdentified,
		Status:         models.StatusImplementation,
	}

	switch d.Type {
	case models.TypeRisk:
		score, err := newScore(op, "initial", d.Likelihood, d.Severity)
		if err != nil {
			return models.RegistryItem{}, err
		}
		item.Risk = score
	case models.TypeOpportunity:
		if !d.ExpectedBenefit.Valid() || !d.Feasibility.Valid() {
			return models.RegistryItem{}, invalid(op, "expected benefit and feasibility must be LOW, MEDIUM or HIGH")
		}
		item.ExpectedBenefit = d.ExpectedBenefit
		item.Feasibility = d.Feasibility
	}

	if len(d.ActionPlans) == 0 {
		return models.RegistryItem{}, invalid(op, "at least one action plan is required")
	}
	item.ActionPlans = make([]models.ActionPlan, 0, len(d.ActionPlans))
	for _, pd := range d.ActionPlans {
		if err := validatePlanDraft(op, d.Type, pd); err != nil {
			return models.RegistryItem{}, err
		}
		item.ActionPlans = append(item.ActionPlans, e.newPlan(pd))
	}

	item.ID = e.newID()
	item.CreatedAt = e.Now()
	item.AuditTrail = []models.AuditEvent{}
	return AppendEvent(item, EventEntryCreated, actor.Name, item.CreatedAt), nil
}

// DetailsEdit carries the fields an owner changes; nil means unchanged.
type DetailsEdit struct {
	Section        *string
	Process        *string
	Source         *string
	Description    *string
	DateIdentified *string

	Likelihood *int
	Severity   *int

	ExpectedBenefit *models.Grade
	Feasibility     *models.Grade
}

func (d DetailsEdit) empty() bool {
	return d.Section == nil && d.Process == nil && d.Source == nil && d.Description == nil &&
		d.DateIdentified == nil && d.Likelihood == nil && d.Severity == nil &&
		d.ExpectedBenefit == nil && d.Feasibility == nil
}

// EditDetails applies an owner's edit as one "Details Edited" event. A changed
// likelihood or severity re-derives rating and level.
func (e *Engine) EditDetails(actor models.Actor, item models.RegistryItem, d DetailsEdit) (models.RegistryItem, error) {
	const op = "edit details"
	if err := requireOwnerInImplementation(op, actor, item); err != nil {
		return item, err
	}
	if d.empty() {
		return item, invalid(op, "no fields to update")
	}

	out := item.Clone()
	if d.Section != nil {
		section := strings.TrimSpace(*d.Section)
		if !actor.Owns(section) {
			return item, forbidden(op, "cannot move entry to section %s", section)
		}
		out.Section = section
	}
	if d.Process != nil {
		if strings.TrimSpace(*d.Process) == "" {
			return item, invalid(op, "process is required")
		}
		out.Process = strings.TrimSpace(*d.Process)
	}
	if d.Description != nil {
		if strings.TrimSpace(*d.Description) == "" {
			return item, invalid(op, "description is required")
		}
		out.Description = strings.TrimSpace(*d.Description)
	}
	if d.Source != nil {
		out.Source = strings.TrimSpace(*d.Source)
	}
	if d.DateIdentified != nil {
		if _, err := time.Parse(models.DateLayout, *d.DateIdentified); err != nil {
			return item, invalid(op, "date identified must be YYYY-MM-DD")
		}
		out.DateIdentified = *d.DateIdentified
	}

	switch item.Type {
	case models.TypeRisk:
		if d.ExpectedBenefit != nil || d.Feasibility != nil {
			return item, invalid(op, "risks have no expected benefit or feasibility")
		}
		if d.Likelihood != nil || d.Severity != nil {
			var current models.Score
			if item.Risk != nil {
				current = *item.Risk
			}
			if d.Likelihood != nil {
				current.Likelihood = *d.Likelihood
			}
			if d.Severity != nil {
				current.Severity = *d.Severity
			}
			score, err := newScore(op, "initial", current.Likelihood, current.Severity)
			if err != nil {
				return item, err
			}
			out.Risk = score
		}
	case models.TypeOpportunity:
		if d.Likelihood != nil || d.Severity != nil {
			return item, invalid(op, "opportunities are not scored")
		}
		if d.ExpectedBenefit != nil {
			if !d.ExpectedBenefit.Valid() {
				return item, invalid(op, "expected benefit must be LOW, MEDIUM or HIGH")
			}
			out.ExpectedBenefit = *d.ExpectedBenefit
		}
		if d.Feasibility != nil {
			if !d.Feasibility.Valid() {
				return item, invalid(op, "feasibility must be LOW, MEDIUM or HIGH")
			}
			out.Feasibility = *d.Feasibility
		}
	}

	return e.AppendEvent(out, EventDetailsEdited, actor.Name), nil
}

// NeedsActionPlan reports whether IQA should be prompted to ask the owner for
// an action plan. It never changes the entry.
func NeedsActionPlan(actor models.Actor, item models.RegistryItem) bool {
	return actor.IQA &&
		item.Type == models.TypeRisk &&
		item.Status == models.StatusImplementation &&
		len(item.ActionPlans) == 0
}

type Implementation string

const (
	Implemented    Implementation = "IMPLEMENTED"
	NotImplemented Implementation = "NOT_IMPLEMENTED"
)

type Effectiveness string

const (
	Effective    Effectiveness = "EFFECTIVE"
	NotEffective Effectiveness = "NOT_EFFECTIVE"
)

// Verdict is IQA's final verification of an entry.
type Verdict struct {
	Implementation Implementation
	Effectiveness  Effectiveness
	Remarks        string
}

const (
	rejectionTag    = "[IQA REJECTION]"
	verificationTag = "[IQA VERIFIED]"
	noRemarks       = "No remarks provided."
)

// FinalVerify closes or rejects an entry in IQA_VERIFICATION. A rejection
// appends to the effectiveness remarks; a closure replaces them, and keeps the
// prior value only when no remarks are given.
func (e *Engine) FinalVerify(actor models.Actor, item models.RegistryItem, v Verdict) (models.RegistryItem, error) {
	const op = "final verification"
	if !actor.IQA {
		return item, forbidden(op, "only IQA may verify entries")
	}
	if item.Status != models.StatusIQAVerification {
		return item, notAllowed(op, "entry is %s, not %s", item.Status, models.StatusIQAVerification)
	}
	if v.Implementation != Implemented && v.Implementation != NotImplemented {
		return item, invalid(op, "implementation must be %s or %s", Implemented, NotImplemented)
	}
	if v.Effectiveness != Effective && v.Effectiveness != NotEffective {
		return item, invalid(op, "effectiveness must be %s or %s", Effective, NotEffective)
	}

	remarks := strings.TrimSpace(v.Remarks)
	out := item.Clone()
	if v.Implementation == NotImplemented || v.Effectiveness == NotEffective {
		if remarks == "" {
			remarks = noRemarks
		}
		note := rejectionTag + " " + remarks
		if out.EffectivenessRemarks != "" {
			note = out.EffectivenessRemarks + "\n\n" + note
		}
		out.EffectivenessRemarks = note
		out.Status = models.StatusImplementation
		return e.AppendEvent(out, EventVerificationRejected, actor.Name), nil
	}

	now := e.Now()
	out.Status = models.StatusClosed
	out.ClosedAt = &now
	if remarks != "" {
		out.EffectivenessRemarks = verificationTag + " " + remarks
	}
	return AppendEvent(out, EventEntryClosed, actor.Name, now), nil
}

// Reopen returns a CLOSED entry to IMPLEMENTATION. Password confirmation
// happens before this is called.
func (e *Engine) Reopen(actor models.Actor, item models.RegistryItem) (models.RegistryItem, error) {
	const op = "reopen entry"
	if !actor.IQA {
		return item, forbidden(op, "only IQA may reopen entries")
	}
	if item.Status != models.StatusClosed {
		return item, notAllowed(op, "entry is %s, not %s", item.Status, models.StatusClosed)
	}
	out := item.Clone()
	out.Status = models.StatusImplementation
	out.ClosedAt = nil
	return e.AppendEvent(out, EventEntryReopened, actor.Name), nil
}

// CanDelete reports whether the actor may remove the entry: IQA, or the owner
// of its section. Deletion leaves no audit record behind.
func CanDelete(actor models.Actor, item models.RegistryItem) error {
	if actor.IQA || actor.Owns(item.Section) {
		return nil
	}
	return forbidden("delete entry", "only IQA or the %s process owner may delete this entry", item.Section)
}

// NotFound is returned by callers that look entries up by id.
func NotFound(op, id string) error {
	return newError(op, ErrNotFound, "entry %s not found", id)
}
