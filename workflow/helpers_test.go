package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

var (
	owner = models.Actor{Name: "Pharmacy", Section: "Pharmacy"}
	other = models.Actor{Name: "Laboratory", Section: "Laboratory"}
	iqa   = models.Actor{Name: "IQA", IQA: true}
)

func testEngine() *Engine {
	n := 0
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func riskDraft(plans ...models.PlanDraft) Draft {
	return Draft{
		Type:        models.TypeRisk,
		Process:     "Dispensing",
		Source:      "Internal audit",
		Description: "Look-alike medicines stored together",
		Likelihood:  4,
		Severity:    4,
		ActionPlans: plans,
	}
}

func plan(desc string) models.PlanDraft {
	return models.PlanDraft{Strategy: models.StrategyReduce, Description: desc, TargetDate: "2026-12-31"}
}

func mustCreate(t *testing.T, e *Engine, d Draft) models.RegistryItem {
	t.Helper()
	item, err := e.Create(owner, d)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return item
}

func residual(l, s int) *models.Score {
	return &models.Score{Likelihood: l, Severity: s}
}

// verifiedItem walks a one-plan risk through submission and IQA verification.
func verifiedItem(t *testing.T, e *Engine) models.RegistryItem {
	t.Helper()
	item := mustCreate(t, e, riskDraft(plan("Segregate shelves")))
	id := item.ActionPlans[0].ID
	item, err := e.SubmitPlan(owner, item, id, Submission{Remarks: "done", Residual: residual(2, 2)})
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	item, err = e.ReviewPlan(iqa, item, id, models.PlanCompleted, "")
	if err != nil {
		t.Fatalf("ReviewPlan() error = %v", err)
	}
	if item.Status != models.StatusIQAVerification {
		t.Fatalf("status = %s, want %s", item.Status, models.StatusIQAVerification)
	}
	return item
}

func lastEvent(item models.RegistryItem) string {
	if len(item.AuditTrail) == 0 {
		return ""
	}
	return item.AuditTrail[len(item.AuditTrail)-1].Event
}
