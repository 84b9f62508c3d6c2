package workflow

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

func TestAddPlan(t *testing.T) {
	e := testEngine()
	item := mustCreate(t, e, riskDraft(plan("Segregate shelves")))

	got, err := e.AddPlan(owner, item, models.PlanDraft{Strategy: models.StrategyAvoid, Description: "Use tall-man lettering"})
	if err != nil {
		t.Fatalf("AddPlan() error = %v", err)
	}
	if len(got.ActionPlans) != 2 {
		t.Fatalf("plans = %d, want 2", len(got.ActionPlans))
	}
	if got.ActionPlans[1].Status != models.PlanForImplementation {
		t.Errorf("new plan status = %s", got.ActionPlans[1].Status)
	}
	if want := "Action Plan Added: Use tall-man lettering"; lastEvent(got) != want {
		t.Errorf("last event = %q, want %q", lastEvent(got), want)
	}
	if len(got.AuditTrail) != len(item.AuditTrail)+1 {
		t.Errorf("trail grew by %d, want 1", len(got.AuditTrail)-len(item.AuditTrail))
	}
	if len(item.ActionPlans) != 1 || len(item.AuditTrail) != 1 {
		t.Error("AddPlan() modified its input snapshot")
	}
}

func TestAddPlanRejected(t *testing.T) {
	e := testEngine()
	item := mustCreate(t, e, riskDraft(plan("Segregate shelves")))
	closed := item.Clone()
	closed.Status = models.StatusClosed

	tests := []struct {
		name  string
		actor models.Actor
		item  models.RegistryItem
		draft models.PlanDraft
		want  error
	}{
		{"opportunity strategy on risk", owner, item, models.PlanDraft{Strategy: models.StrategyExploit, Description: "x"}, ErrValidation},
		{"unknown strategy", owner, item, models.PlanDraft{Strategy: "PRAY", Description: "x"}, ErrValidation},
		{"blank description", owner, item, models.PlanDraft{Strategy: models.StrategyReduce, Description: "  "}, ErrValidation},
		{"bad target date", owner, item, models.PlanDraft{Strategy: models.StrategyReduce, Description: "x", TargetDate: "31/12/2026"}, ErrValidation},
		{"other section", other, item, plan("x"), ErrForbidden},
		{"iqa", iqa, item, plan("x"), ErrForbidden},
		{"closed entry", owner, closed, plan("x"), ErrPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.AddPlan(tt.actor, tt.item, tt.draft)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AddPlan() error = %v, want %v", err, tt.want)
			}
			if len(got.AuditTrail) != len(tt.item.AuditTrail) {
				t.Error("rejected AddPlan() produced an audit event")
			}
		})
	}
}

func TestRemovePlanAllowsRemovingLast(t *testing.T) {
	e := testEngine()
	item := mustCreate(t, e, riskDraft(plan("Segregate shelves")))

	got, err := e.RemovePlan(owner, item, item.ActionPlans[0].ID)
	if err != nil {
		t.Fatalf("RemovePlan() error = %v", err)
	}
	if len(got.ActionPlans) != 0 {
		t.Fatalf("plans = %d, want 0", len(got.ActionPlans))
	}
	if want := "Action Plan Removed: Segregate shelves"; lastEvent(got) != want {
		t.Errorf("last event = %q, want %q", lastEvent(got), want)
	}

	if _, err := e.RemovePlan(owner, got, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemovePlan(missing) error = %v, want ErrNotFound", err)
	}
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status models.PlanStatus
		target string
		want   bool
	}{
		{"past, for implementation", models.PlanForImplementation, "2026-03-09", true},
		{"past, revision required", models.PlanRevisionRequired, "2026-01-01", true},
		{"past, legacy pending", models.PlanPendingApproval, "2026-03-09", true},
		{"today", models.PlanForImplementation, "2026-03-10", false},
		{"future", models.PlanForImplementation, "2026-03-11", false},
		{"past, for verification", models.PlanForVerification, "2026-01-01", false},
		{"past, completed", models.PlanCompleted, "2026-01-01", false},
		{"no target", models.PlanForImplementation, "", false},
		{"unparseable target", models.PlanForImplementation, "soon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.ActionPlan{Status: tt.status, TargetDate: tt.target}
			if got := IsOverdue(p, today); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubmitOverdueRequiresJustification(t *testing.T) {
	e := testEngine()
	late := models.PlanDraft{Strategy: models.StrategyReduce, Description: "Relabel bins", TargetDate: "2026-03-01"}
	item := mustCreate(t, e, riskDraft(late))
	id := item.ActionPlans[0].ID

	got, err := e.SubmitPlan(owner, item, id, Submission{Remarks: "Relabelled", DelayJustification: "  ", Residual: residual(2, 2)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("SubmitPlan() error = %v, want ErrValidation", err)
	}
	if got.ActionPlans[0].Status != models.PlanForImplementation || len(got.AuditTrail) != 1 || got.Residual != nil {
		t.Fatal("rejected submission changed the entry")
	}

	got, err = e.SubmitPlan(owner, item, id, Submission{Remarks: "Relabelled", DelayJustification: "Supplier delay", Residual: residual(2, 2)})
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	remarks := got.ActionPlans[0].CompletionRemarks
	if !strings.HasPrefix(remarks, "[DELAY JUSTIFICATION: Supplier delay]") {
		t.Errorf("completion remarks = %q", remarks)
	}
	if !strings.HasSuffix(remarks, "Relabelled") {
		t.Errorf("completion remarks lost the owner's remarks: %q", remarks)
	}
	if got.ActionPlans[0].Status != models.PlanForVerification {
		t.Errorf("status = %s, want %s", got.ActionPlans[0].Status, models.PlanForVerification)
	}
	if lastEvent(got) != EventPlanSubmitted {
		t.Errorf("last event = %q", lastEvent(got))
	}
}

func TestSubmitRecordsResidualRisk(t *testing.T) {
	e := testEngine()
	item := mustCreate(t, e, riskDraft(plan("Segregate shelves")))
	id := item.ActionPlans[0].ID

	if _, err := e.SubmitPlan(owner, item, id, Submission{Remarks: "done"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("SubmitPlan() without residual error = %v, want ErrValidation", err)
	}
	if _, err := e.SubmitPlan(owner, item, id, Submission{Residual: residual(6, 1)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("SubmitPlan() with residual out of range error = %v, want ErrValidation", err)
	}

	got, err := e.SubmitPlan(owner, item, id, Submission{Remarks: "done", Residual: residual(3, 4)})
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	if got.Residual == nil || got.Residual.Rating() != 12 || got.Residual.Level() != models.LevelHigh {
		t.Fatalf("residual = %+v, want rating 12 HIGH", got.Residual)
	}
	if got.ActionPlans[0].CompletionRemarks != "done" {
		t.Errorf("completion remarks = %q", got.ActionPlans[0].CompletionRemarks)
	}
	if item.Residual != nil {
		t.Error("SubmitPlan() modified its input snapshot")
	}

	if _, err := e.SubmitPlan(owner, got, id, Submission{Residual: residual(1, 1)}); !errors.Is(err, ErrPrecondition) {
		t.Errorf("resubmitting a FOR_VERIFICATION plan error = %v, want ErrPrecondition", err)
	}
}

func TestSubmitOpportunityNeedsNoResidual(t *testing.T) {
	e := testEngine()
	item := mustCreate(t, e, Draft{
		Type:            models.TypeOpportunity,
		Process:         "Patient intake",
		Description:     "Online pre-registration",
		ExpectedBenefit: models.GradeHigh,
		Feasibility:     models.GradeMedium,
		ActionPlans:     []models.PlanDraft{{Strategy: models.StrategyExploit, Description: "Launch web form"}},
	})
	got, err := e.SubmitPlan(owner, item, item.ActionPlans[0].ID, Submission{Remarks: "Live", Residual: residual(1, 1)})
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	if got.Residual != nil {
		t.Errorf("opportunity got a residual score %+v", got.Residual)
	}
}

func TestAllPlansCompletedTriggersVerification(t *testing.T) {
	e := testEngine()
	item := mustCreate(t, e, riskDraft(plan("Segregate shelves"), plan("Train staff")))
	first, second := item.ActionPlans[0].ID, item.ActionPlans[1].ID

	var err error
	for _, id := range []string{first, second} {
		item, err = e.SubmitPlan(owner, item, id, Submission{Remarks: "done", Residual: residual(2, 2)})
		if err != nil {
			t.Fatalf("SubmitPlan(%s) error = %v", id, err)
		}
	}

	item, err = e.ReviewPlan(iqa, item, first, models.PlanCompleted, "")
	if err != nil {
		t.Fatalf("ReviewPlan(first) error = %v", err)
	}
	if item.Status != models.StatusImplementation {
		t.Fatalf("status after first verification = %s, want %s", item.Status, models.StatusImplementation)
	}

	before := len(item.AuditTrail)
	item, err = e.ReviewPlan(iqa, item, second, models.PlanCompleted, "")
	if err != nil {
		t.Fatalf("ReviewPlan(second) error = %v", err)
	}
	if item.Status != models.StatusIQAVerification {
		t.Fatalf("status after second verification = %s, want %s", item.Status, models.StatusIQAVerification)
	}
	if len(item.AuditTrail) != before+1 || lastEvent(item) != EventPlanVerified {
		t.Errorf("expected exactly one %q event, trail = %+v", EventPlanVerified, item.AuditTrail[before:])
	}
}

func TestReviewPlanRejectAndResubmit(t *testing.T) {
	e := testEngine()
	item := mustCreate(t, e, riskDraft(plan("Segregate shelves")))
	id := item.ActionPlans[0].ID

	if _, err := e.ReviewPlan(iqa, item, id, models.PlanCompleted, ""); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("ReviewPlan() on unsubmitted plan error = %v, want ErrPrecondition", err)
	}

	item, err := e.SubmitPlan(owner, item, id, Submission{Remarks: "done", Residual: residual(2, 2)})
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	if _, err := e.ReviewPlan(owner, item, id, models.PlanCompleted, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ReviewPlan() by owner error = %v, want ErrForbidden", err)
	}
	if _, err := e.ReviewPlan(iqa, item, id, models.PlanForImplementation, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("ReviewPlan() with bad outcome error = %v, want ErrValidation", err)
	}

	item, err = e.ReviewPlan(iqa, item, id, models.PlanRevisionRequired, "No photos attached")
	if err != nil {
		t.Fatalf("ReviewPlan() error = %v", err)
	}
	p := item.ActionPlans[0]
	if p.Status != models.PlanRevisionRequired || p.VerificationRemarks != "No photos attached" {
		t.Fatalf("plan = %+v", p)
	}
	if lastEvent(item) != EventPlanRejected || item.Status != models.StatusImplementation {
		t.Fatalf("last event = %q, status = %s", lastEvent(item), item.Status)
	}

	item, err = e.SubmitPlan(owner, item, id, Submission{Remarks: "Photos attached", Residual: residual(1, 2)})
	if err != nil {
		t.Fatalf("resubmit error = %v", err)
	}
	if item.ActionPlans[0].Status != models.PlanForVerification {
		t.Errorf("status = %s", item.ActionPlans[0].Status)
	}
}
