package workflow

import (
	"strings"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

// Audit event labels.
const (
	EventEntryCreated         = "Entry Created"
	EventDetailsEdited        = "Details Edited"
	EventPlanAdded            = "Action Plan Added"
	EventPlanRemoved          = "Action Plan Removed"
	EventPlanSubmitted        = "Action Submitted for Verification"
	EventPlanVerified         = "Action Plan Verified as Complete"
	EventPlanRejected         = "Action Plan Rejected by IQA"
	EventVerificationRejected = "IQA Verification Rejected"
	EventEntryClosed          = "Entry Validated and Closed"
	EventEntryReopened        = "Entry Reopened"
)

// AppendEvent returns a copy of item with one event added to the end of its
// trail. Existing events are never touched.
func AppendEvent(item models.RegistryItem, label, user string, at time.Time) models.RegistryItem {
	out := item.Clone()
	out.AuditTrail = append(out.AuditTrail, models.AuditEvent{
		Timestamp: at,
		Event:     label,
		User:      user,
	})
	return out
}

// AppendEvent stamps the event with the engine's clock.
func (e *Engine) AppendEvent(item models.RegistryItem, label, user string) models.RegistryItem {
	return AppendEvent(item, label, user, e.Now())
}

// DisplayOrder returns the trail most recent first.
func DisplayOrder(trail []models.AuditEvent) []models.AuditEvent {
	out := make([]models.AuditEvent, len(trail))
	for i, ev := range trail {
		out[len(trail)-1-i] = ev
	}
	return out
}

// Reconcile aligns the trail with the persisted creation and close timestamps:
// the first event takes CreatedAt, and for a closed item the last event takes
// ClosedAt when its label marks a closure or verification. Applying it twice
// gives the same result.
func Reconcile(item models.RegistryItem) models.RegistryItem {
	if len(item.AuditTrail) == 0 {
		return item
	}
	out := item.Clone()
	if !out.CreatedAt.IsZero() {
		out.AuditTrail[0].Timestamp = out.CreatedAt
	}
	if out.Status == models.StatusClosed && out.ClosedAt != nil {
		last := len(out.AuditTrail) - 1
		if indicatesClosure(out.AuditTrail[last].Event) {
			out.AuditTrail[last].Timestamp = *out.ClosedAt
		}
	}
	return out
}

func indicatesClosure(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "closed") || strings.Contains(l, "validated") || strings.Contains(l, "verified")
}
