// models/user.go
package models

const (
	RoleProcessOwner = "process_owner"
	RoleIQA          = "iqa"
)

// User is an entry of the credential directory.
type User struct {
	Name         string `yaml:"name" json:"name"`
	Role         string `yaml:"role" json:"role"`
	Section      string `yaml:"section,omitempty" json:"section,omitempty"`
	PasswordHash string `yaml:"password_hash,omitempty" json:"-"`
}

func (u User) IsIQA() bool {
	return u.Role == RoleIQA
}

func (u User) Actor() Actor {
	return Actor{Name: u.Name, Section: u.Section, IQA: u.IsIQA()}
}

// Actor is the acting identity passed to every workflow operation.
type Actor struct {
	Name    string `json:"name"`
	Section string `json:"section,omitempty"`
	IQA     bool   `json:"isIQA"`
}

// Owns reports whether the actor is the process owner of the given section.
func (a Actor) Owns(section string) bool {
	return !a.IQA && a.Section != "" && a.Section == section
}
