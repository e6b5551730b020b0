// Package userstore holds the credential records consulted during login
// and token verification. The store is provisioned once at startup and is
// read-only afterwards, so concurrent lookups need no coordination beyond
// the container's own guarantees.
package userstore

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dkrylov/gatekit/password"
)

// Role is the closed authorization enumeration carried by every user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// User is a single identity record. PasswordHash is opaque to everything
// except the password verifier.
type User struct {
	Username     string `yaml:"username" json:"username"`
	Email        string `yaml:"email" json:"email"`
	Role         Role   `yaml:"role" json:"role"`
	PasswordHash string `yaml:"password_hash" json:"-"`
	Disabled     bool   `yaml:"disabled" json:"disabled"`
}

// ErrUserNotFound is returned when a username does not resolve.
var ErrUserNotFound = errors.New("user not found")

// Store looks up user records by username.
type Store interface {
	GetByUsername(username string) (User, error)
	All() []User
}

// Memory is an in-process Store keyed by username.
type Memory struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemory returns a store seeded with the given users. Later duplicates
// of the same username win.
func NewMemory(users ...User) *Memory {
	m := &Memory{users: make(map[string]User, len(users))}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

// GetByUsername implements Store.
func (m *Memory) GetByUsername(username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// All implements Store. Users are returned sorted by username.
func (m *Memory) All() []User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Username     string `yaml:"username"`
	Email        string `yaml:"email"`
	Role         Role   `yaml:"role"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
	Disabled     bool   `yaml:"disabled"`
}

// LoadFile reads a YAML seed file and returns a populated store. Entries
// may carry either a precomputed password_hash or a plaintext password,
// which is hashed with hasher at load time.
func LoadFile(path string, hasher password.Hasher) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse user seed file: %w", err)
	}

	users := make([]User, 0, len(sf.Users))
	for _, s := range sf.Users {
		if s.Username == "" {
			return nil, errors.New("user seed entry without username")
		}
		role := s.Role
		if role == "" {
			role = RoleUser
		}
		if !role.Valid() {
			return nil, fmt.Errorf("user %q has unknown role %q", s.Username, s.Role)
		}

		hash := s.PasswordHash
		if hash == "" {
			if s.Password == "" {
				return nil, fmt.Errorf("user %q has neither password nor password_hash", s.Username)
			}
			if hasher == nil {
				return nil, fmt.Errorf("user %q has a plaintext password but no hasher was provided", s.Username)
			}
			hash, err = hasher.Hash(s.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password for user %q: %w", s.Username, err)
			}
		}

		users = append(users, User{
			Username:     s.Username,
			Email:        s.Email,
			Role:         role,
			PasswordHash: hash,
			Disabled:     s.Disabled,
		})
	}

	return NewMemory(users...), nil
}
