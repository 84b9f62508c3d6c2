// database/document.go
package database

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

// registryDocument is the persisted, snake_case shape of a registry item.
// Ratings and levels are written for reporting queries but recomputed from
// the likelihood/severity pair on load.
type registryDocument struct {
	ID             string `bson:"_id"`
	Type           string `bson:"type"`
	Section        string `bson:"section"`
	Process        string `bson:"process"`
	Source         string `bson:"source,omitempty"`
	Description    string `bson:"description"`
	DateIdentified string `bson:"date_identified,omitempty"`

	Likelihood int    `bson:"likelihood,omitempty"`
	Severity   int    `bson:"severity,omitempty"`
	RiskRating int    `bson:"risk_rating,omitempty"`
	RiskLevel  string `bson:"risk_level,omitempty"`

	ExpectedBenefit string `bson:"expected_benefit,omitempty"`
	Feasibility     string `bson:"feasibility,omitempty"`

	ResidualLikelihood int    `bson:"residual_likelihood,omitempty"`
	ResidualSeverity   int    `bson:"residual_severity,omitempty"`
	ResidualRiskRating int    `bson:"residual_risk_rating,omitempty"`
	ResidualRiskLevel  string `bson:"residual_risk_level,omitempty"`

	ActionPlans          []planDocument `bson:"action_plans"`
	Status               string         `bson:"status"`
	EffectivenessRemarks string         `bson:"effectiveness_remarks,omitempty"`
	CreatedAt            time.Time      `bson:"created_at"`
	ClosedAt             *time.Time     `bson:"closed_at,omitempty"`
	AuditTrail           bson.RawValue  `bson:"audit_trail"`
}

type planDocument struct {
	ID                  string `bson:"id"`
	Strategy            string `bson:"strategy"`
	Description         string `bson:"description"`
	Evidence            string `bson:"evidence,omitempty"`
	ResponsiblePerson   string `bson:"responsible_person,omitempty"`
	TargetDate          string `bson:"target_date,omitempty"`
	Status              string `bson:"status"`
	CompletionRemarks   string `bson:"completion_remarks,omitempty"`
	VerificationRemarks string `bson:"verification_remarks,omitempty"`
}

type auditDocument struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Event     string    `bson:"event" json:"event"`
	User      string    `bson:"user" json:"user"`
}

func toDocument(item models.RegistryItem) (registryDocument, error) {
	doc := registryDocument{
		ID:                   item.ID,
		Type:                 string(item.Type),
		Section:              item.Section,
		Process:              item.Process,
		Source:               item.Source,
		Description:          item.Description,
		DateIdentified:       item.DateIdentified,
		ExpectedBenefit:      string(item.ExpectedBenefit),
		Feasibility:          string(item.Feasibility),
		Status:               string(item.Status),
		EffectivenessRemarks: item.EffectivenessRemarks,
		CreatedAt:            item.CreatedAt,
		ClosedAt:             item.ClosedAt,
		ActionPlans:          make([]planDocument, 0, len(item.ActionPlans)),
	}
	if item.Risk != nil {
		doc.Likelihood = item.Risk.Likelihood
		doc.Severity = item.Risk.Severity
		doc.RiskRating = item.Risk.Rating()
		doc.RiskLevel = string(item.Risk.Level())
	}
	if item.Residual != nil {
		doc.ResidualLikelihood = item.Residual.Likelihood
		doc.ResidualSeverity = item.Residual.Severity
		doc.ResidualRiskRating = item.Residual.Rating()
		doc.ResidualRiskLevel = string(item.Residual.Level())
	}
	for _, p := range item.ActionPlans {
		doc.ActionPlans = append(doc.ActionPlans, planDocument{
			ID:                  p.ID,
			Strategy:            string(p.Strategy),
			Description:         p.Description,
			Evidence:            p.Evidence,
			ResponsiblePerson:   p.ResponsiblePerson,
			TargetDate:          p.TargetDate,
			Status:              string(p.Status),
			CompletionRemarks:   p.CompletionRemarks,
			VerificationRemarks: p.VerificationRemarks,
		})
	}

	trail := make([]auditDocument, 0, len(item.AuditTrail))
	for _, ev := range item.AuditTrail {
		trail = append(trail, auditDocument{Timestamp: ev.Timestamp, Event: ev.Event, User: ev.User})
	}
	t, data, err := bson.MarshalValue(trail)
	if err != nil {
		return registryDocument{}, fmt.Errorf("encode audit trail of %s: %w", item.ID, err)
	}
	doc.AuditTrail = bson.RawValue{Type: t, Value: data}
	return doc, nil
}

func fromDocument(doc registryDocument) models.RegistryItem {
	item := models.RegistryItem{
		ID:                   doc.ID,
		Type:                 models.ItemType(doc.Type),
		Section:              doc.Section,
		Process:              doc.Process,
		Source:               doc.Source,
		Description:          doc.Description,
		DateIdentified:       doc.DateIdentified,
		ExpectedBenefit:      models.Grade(doc.ExpectedBenefit),
		Feasibility:          models.Grade(doc.Feasibility),
		Status:               models.ItemStatus(doc.Status),
		EffectivenessRemarks: doc.EffectivenessRemarks,
		CreatedAt:            doc.CreatedAt,
		ClosedAt:             doc.ClosedAt,
		ActionPlans:          make([]models.ActionPlan, 0, len(doc.ActionPlans)),
	}
	if s := (models.Score{Likelihood: doc.Likelihood, Severity: doc.Severity}); s.Valid() {
		item.Risk = &s
	}
	if s := (models.Score{Likelihood: doc.ResidualLikelihood, Severity: doc.ResidualSeverity}); s.Valid() {
		item.Residual = &s
	}
	for _, p := range doc.ActionPlans {
		item.ActionPlans = append(item.ActionPlans, models.ActionPlan{
			ID:                  p.ID,
			Strategy:            models.Strategy(p.Strategy),
			Description:         p.Description,
			Evidence:            p.Evidence,
			ResponsiblePerson:   p.ResponsiblePerson,
			TargetDate:          p.TargetDate,
			Status:              models.PlanStatus(p.Status).Normalize(),
			CompletionRemarks:   p.CompletionRemarks,
			VerificationRemarks: p.VerificationRemarks,
		})
	}
	item.AuditTrail = decodeAuditTrail(doc.ID, doc.AuditTrail)
	return item
}

// decodeAuditTrail never fails: a malformed trail is replaced by an empty one
// so a single bad record does not block loading the registry. Trails written
// as a JSON text blob are accepted too.
func decodeAuditTrail(id string, raw bson.RawValue) []models.AuditEvent {
	var docs []auditDocument
	switch raw.Type {
	case bsontype.Type(0), bsontype.Null, bsontype.Undefined:
		return []models.AuditEvent{}
	case bsontype.String:
		if err := json.Unmarshal([]byte(raw.StringValue()), &docs); err != nil {
			log.Printf("registry item %s: unreadable audit trail, using empty trail: %v", id, err)
			return []models.AuditEvent{}
		}
	default:
		if err := raw.Unmarshal(&docs); err != nil {
			log.Printf("registry item %s: unreadable audit trail, using empty trail: %v", id, err)
			return []models.AuditEvent{}
		}
	}
	trail := make([]models.AuditEvent, 0, len(docs))
	for _, d := range docs {
		trail = append(trail, models.AuditEvent{Timestamp: d.Timestamp, Event: d.Event, User: d.User})
	}
	return trail
}
