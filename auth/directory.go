// Package auth is the credential directory: the identities allowed to sign
// in, their role and section, and the bcrypt hashes they are checked against.
package auth

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
)

var ErrInvalidCredentials = errors.New("invalid name or password")

// dummyHash keeps the timing of unknown identities close to known ones.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOa8Y6pX1JRW4Q8U8m2Vb8l1bO0XyGZ7u"

type directoryFile struct {
	DefaultPasswordHash string        `yaml:"default_password_hash"`
	Users               []models.User `yaml:"users"`
}

// Directory maps identities to users. Identities not listed sign in as the
// process owner of the section carrying their name when a default hash is set.
type Directory struct {
	users       map[string]models.User
	defaultHash string
}

// Load reads a users file. A missing file yields an empty directory that
// only admits identities through the default hash.
func Load(path, defaultHash string) (*Directory, error) {
	var f directoryFile
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse users file %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read users file: %w", err)
	}
	if defaultHash == "" {
		defaultHash = f.DefaultPasswordHash
	}
	d, err := New(f.Users, defaultHash)
	if err != nil {
		return nil, fmt.Errorf("users file %s: %w", path, err)
	}
	return d, nil
}

func New(users []models.User, defaultHash string) (*Directory, error) {
	d := &Directory{users: make(map[string]models.User, len(users)), defaultHash: defaultHash}
	for i, u := range users {
		u.Name = strings.TrimSpace(u.Name)
		if u.Name == "" {
			return nil, fmt.Errorf("user %d: missing name", i)
		}
		switch u.Role {
		case "":
			u.Role = models.RoleProcessOwner
		case models.RoleProcessOwner, models.RoleIQA:
		default:
			return nil, fmt.Errorf("user %q: unknown role %q", u.Name, u.Role)
		}
		if u.Role == models.RoleProcessOwner && u.Section == "" {
			u.Section = u.Name
		}
		key := normalize(u.Name)
		if _, dup := d.users[key]; dup {
			return nil, fmt.Errorf("user %q: listed twice", u.Name)
		}
		d.users[key] = u
	}
	return d, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the listed user, or the implicit process owner for an
// unlisted identity when a default hash is configured.
func (d *Directory) Lookup(name string) (models.User, bool) {
	if u, ok := d.users[normalize(name)]; ok {
		return u, true
	}
	name = strings.TrimSpace(name)
	if d.defaultHash == "" || name == "" {
		return models.User{}, false
	}
	return models.User{
		Name:         name,
		Role:         models.RoleProcessOwner,
		Section:      name,
		PasswordHash: d.defaultHash,
	}, true
}

// Verify checks a password and returns the signed-in user.
func (d *Directory) Verify(name, password string) (models.User, error) {
	u, ok := d.Lookup(name)
	if !ok {
		_ = utils.CheckPasswordHash(password, dummyHash)
		return models.User{}, ErrInvalidCredentials
	}
	hash := u.PasswordHash
	if hash == "" {
		hash = d.defaultHash
	}
	if hash == "" || !utils.CheckPasswordHash(password, hash) {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Users lists the configured identities sorted by name.
func (d *Directory) Users() []models.User {
	out := make([]models.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
