// models/action_plan.go
package models

type PlanStatus string

const (
	PlanForImplementation PlanStatus = "FOR_IMPLEMENTATION"
	PlanRevisionRequired  PlanStatus = "REVISION_REQUIRED"
	PlanForVerification   PlanStatus = "FOR_VERIFICATION"
	PlanCompleted         PlanStatus = "COMPLETED"

	// PlanPendingApproval only appears in old wizard drafts.
	PlanPendingApproval PlanStatus = "PENDING_APPROVAL"
)

// Normalize maps the legacy PENDING_APPROVAL value onto FOR_IMPLEMENTATION.
func (s PlanStatus) Normalize() PlanStatus {
	if s == PlanPendingApproval || s == "" {
		return PlanForImplementation
	}
	return s
}

type Strategy string

const (
	StrategyAvoid    Strategy = "AVOID"
	StrategyReduce   Strategy = "REDUCE"
	StrategyTransfer Strategy = "TRANSFER"
	StrategyExploit  Strategy = "EXPLOIT"
	StrategyEnhance  Strategy = "ENHANCE"
	StrategyShare    Strategy = "SHARE"
	StrategyAccept   Strategy = "ACCEPT"
)

var (
	riskStrategies        = []Strategy{StrategyAvoid, StrategyReduce, StrategyTransfer, StrategyAccept}
	opportunityStrategies = []Strategy{StrategyExploit, StrategyEnhance, StrategyShare, StrategyAccept}
)

// StrategiesFor returns the strategies an item of the given type may use.
func StrategiesFor(t ItemType) []Strategy {
	switch t {
	case TypeRisk:
		return append([]Strategy(nil), riskStrategies...)
	case TypeOpportunity:
		return append([]Strategy(nil), opportunityStrategies...)
	}
	return nil
}

func (t ItemType) AllowsStrategy(s Strategy) bool {
	for _, candidate := range StrategiesFor(t) {
		if candidate == s {
			return true
		}
	}
	return false
}

type ActionPlan struct {
	ID                  string     `json:"id"`
	Strategy            Strategy   `json:"strategy"`
	Description         string     `json:"description"`
	Evidence            string     `json:"evidence,omitempty"`
	ResponsiblePerson   string     `json:"responsiblePerson,omitempty"`
	TargetDate          string     `json:"targetDate,omitempty"` // YYYY-MM-DD
	Status              PlanStatus `json:"status"`
	CompletionRemarks   string     `json:"completionRemarks,omitempty"`
	VerificationRemarks string     `json:"verificationRemarks,omitempty"`
}

// PlanDraft is the owner-supplied part of a new action plan.
type PlanDraft struct {
	Strategy          Strategy `json:"strategy"`
	Description       string   `json:"description"`
	Evidence          string   `json:"evidence,omitempty"`
	ResponsiblePerson string   `json:"responsiblePerson,omitempty"`
	TargetDate        string   `json:"targetDate,omitempty"`
}
