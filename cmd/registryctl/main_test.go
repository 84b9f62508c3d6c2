package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/registry"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_BACKEND", "memory")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"argument", "", []string{"hash-password", "--cost", "4", "s3cret"}},
		{"stdin", "s3cret\n", []string{"hash-password", "--cost", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("hash-password: %v", err)
			}
			hash := strings.TrimSpace(out)
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
				t.Errorf("hash %q does not match: %v", hash, err)
			}
		})
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := run(t, "\n", "hash-password", "--cost", "4"); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestOverdueOnEmptyRegistry(t *testing.T) {
	out, err := run(t, "", "overdue", "--date", "2026-03-10")
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if !strings.Contains(out, "No overdue action plans") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, "", "overdue", "--date", "10/03/2026"); err == nil {
		t.Error("expected error for malformed --date")
	}
}

func TestSummaryJSON(t *testing.T) {
	out, err := run(t, "", "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var s registry.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("summary output is not JSON: %v\n%s", err, out)
	}
	if s.Total != 0 {
		t.Errorf("Total = %d", s.Total)
	}
}

func TestWriteOverdueTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeOverdue(&buf, []registry.OverduePlan{{
		TargetDate:  "2026-01-31",
		Section:     "Pharmacy",
		Process:     "Dispensing",
		Status:      "FOR_IMPLEMENTATION",
		Description: "Segregate shelves",
	}}, false)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "TARGET") || !strings.Contains(lines[1], "Segregate shelves") {
		t.Errorf("table = %q", buf.String())
	}
}
