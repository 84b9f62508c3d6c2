package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

func hash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func writeUsers(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndVerify(t *testing.T) {
	iqaHash := hash(t, "audit-pass")
	ownerHash := hash(t, "pharma-pass")
	path := writeUsers(t, `
users:
  - name: IQA
    role: iqa
    password_hash: "`+iqaHash+`"
  - name: Pharmacy
    password_hash: "`+ownerHash+`"
`)

	dir, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name     string
		user     string
		password string
		wantErr  bool
		wantIQA  bool
		section  string
	}{
		{"iqa", "IQA", "audit-pass", false, true, ""},
		{"case insensitive name", "iqa", "audit-pass", false, true, ""},
		{"owner defaults section to name", "Pharmacy", "pharma-pass", false, false, "Pharmacy"},
		{"wrong password", "Pharmacy", "nope", true, false, ""},
		{"unknown without default", "Laboratory", "anything", true, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := dir.Verify(tt.user, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("err = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if u.IsIQA() != tt.wantIQA {
				t.Errorf("IsIQA = %v, want %v", u.IsIQA(), tt.wantIQA)
			}
			if u.Section != tt.section {
				t.Errorf("Section = %q, want %q", u.Section, tt.section)
			}
		})
	}
}

func TestDefaultHashAdmitsUnlistedIdentity(t *testing.T) {
	dir, err := New(nil, hash(t, "welcome"))
	if err != nil {
		t.Fatal(err)
	}
	u, err := dir.Verify("Radiology", "welcome")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.Role != models.RoleProcessOwner || u.Section != "Radiology" {
		t.Errorf("user = %+v", u)
	}
	if _, err := dir.Verify("Radiology", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
}

func TestListedUserWithoutHashUsesDefault(t *testing.T) {
	dir, err := New([]models.User{{Name: "Nursing"}}, hash(t, "welcome"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dir.Verify("Nursing", "welcome"); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	dir, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dir.Users()) != 0 {
		t.Errorf("Users = %v", dir.Users())
	}
}

func TestNewRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name  string
		users []models.User
	}{
		{"missing name", []models.User{{Role: models.RoleIQA}}},
		{"unknown role", []models.User{{Name: "x", Role: "admin"}}},
		{"duplicate", []models.User{{Name: "Lab"}, {Name: "lab"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.users, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}
