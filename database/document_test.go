package database

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

func sampleItem() models.RegistryItem {
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	closed := time.Date(2026, 2, 20, 15, 30, 0, 0, time.UTC)
	return models.RegistryItem{
		ID:                   "c0ffee",
		Type:                 models.TypeRisk,
		Section:              "Pharmacy",
		Process:              "Dispensing",
		Source:               "Incident report",
		Description:          "Look-alike medicines stored together",
		DateIdentified:       "2026-01-04",
		Risk:                 &models.Score{Likelihood: 4, Severity: 4},
		Residual:             &models.Score{Likelihood: 2, Severity: 3},
		Status:               models.StatusClosed,
		EffectivenessRemarks: "[IQA VERIFIED] Shelves segregated",
		CreatedAt:            created,
		ClosedAt:             &closed,
		ActionPlans: []models.ActionPlan{{
			ID:                  "p1",
			Strategy:            models.StrategyReduce,
			Description:         "Segregate shelves",
			Evidence:            "photo.jpg",
			ResponsiblePerson:   "Chief Pharmacist",
			TargetDate:          "2026-02-01",
			Status:              models.PlanCompleted,
			CompletionRemarks:   "[DELAY JUSTIFICATION: late delivery] done",
			VerificationRemarks: "missing photo",
		}},
		AuditTrail: []models.AuditEvent{
			{Timestamp: created, Event: "Entry Created", User: "Pharmacy"},
			{Timestamp: closed, Event: "Entry Validated and Closed", User: "IQA"},
		},
	}
}

func roundTrip(t *testing.T, item models.RegistryItem) models.RegistryItem {
	t.Helper()
	doc, err := toDocument(item)
	if err != nil {
		t.Fatalf("toDocument() error = %v", err)
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	var back registryDocument
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}
	return fromDocument(back)
}

func TestDocumentRoundTripIsLossless(t *testing.T) {
	item := sampleItem()
	got := roundTrip(t, item)
	if !reflect.DeepEqual(got, item) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, item)
	}
}

func TestDocumentUsesSnakeCaseColumns(t *testing.T) {
	doc, err := toDocument(sampleItem())
	if err != nil {
		t.Fatalf("toDocument() error = %v", err)
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"date_identified", "action_plans", "audit_trail", "risk_rating", "risk_level", "residual_risk_level", "created_at", "closed_at"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing column %q", key)
		}
	}
	if m["risk_level"] != "CRITICAL" || m["residual_risk_rating"] != int32(6) {
		t.Errorf("derived columns = %v / %v", m["risk_level"], m["residual_risk_rating"])
	}
}

func TestFromDocumentRecomputesLevels(t *testing.T) {
	raw := bson.D{
		{Key: "_id", Value: "x"},
		{Key: "type", Value: "RISK"},
		{Key: "status", Value: "IMPLEMENTATION"},
		{Key: "likelihood", Value: 2},
		{Key: "severity", Value: 3},
		{Key: "risk_rating", Value: 99},
		{Key: "risk_level", Value: "LOW"},
		{Key: "action_plans", Value: bson.A{bson.D{{Key: "id", Value: "p"}, {Key: "status", Value: "PENDING_APPROVAL"}}}},
	}
	item := decodeRaw(t, raw)
	if item.Risk == nil || item.Risk.Rating() != 6 || item.Risk.Level() != models.LevelModerate {
		t.Errorf("risk = %+v", item.Risk)
	}
	if item.Residual != nil {
		t.Errorf("residual = %+v, want none", item.Residual)
	}
	if item.ActionPlans[0].Status != models.PlanForImplementation {
		t.Errorf("legacy plan status = %s", item.ActionPlans[0].Status)
	}
	if item.AuditTrail == nil || len(item.AuditTrail) != 0 {
		t.Errorf("missing trail decoded as %#v", item.AuditTrail)
	}
}

func TestMalformedAuditTrailBecomesEmpty(t *testing.T) {
	tests := []struct {
		name  string
		trail interface{}
		want  int
	}{
		{"number", 42, 0},
		{"array of strings", bson.A{"a", "b"}, 0},
		{"broken json text", "[{not json", 0},
		{"json text", `[{"timestamp":"2026-01-05T08:00:00Z","event":"Entry Created","user":"Pharmacy"}]`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := decodeRaw(t, bson.D{
				{Key: "_id", Value: "x"},
				{Key: "type", Value: "OPPORTUNITY"},
				{Key: "audit_trail", Value: tt.trail},
			})
			if len(item.AuditTrail) != tt.want {
				t.Fatalf("trail = %+v, want %d events", item.AuditTrail, tt.want)
			}
			if tt.want == 1 && item.AuditTrail[0].Event != "Entry Created" {
				t.Errorf("event = %q", item.AuditTrail[0].Event)
			}
		})
	}
}

func decodeRaw(t *testing.T, raw bson.D) models.RegistryItem {
	t.Helper()
	data, err := bson.Marshal(raw)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	var doc registryDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}
	return fromDocument(doc)
}
