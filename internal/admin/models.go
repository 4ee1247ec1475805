// Package admin implements admin-instance provisioning and login over the
// instance credential store.
package admin

import (
	"strings"
	"time"

	"greenleaf/pkg/validation"
)

// Fixed attributes of the singleton admin instance.
const (
	TypeAdmin    = "admin"
	StatusActive = "active"
)

// Instance is the provisioned admin credential record. The password is only
// ever stored as a bcrypt hash; the plaintext is returned exactly once, in
// the creation response.
type Instance struct {
	ID           string
	Username     string
	PasswordHash string
	Type         string
	Status       string
	CreatedAt    time.Time
	CreatedFrom  string
}

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// Sanitize trims the username. The password is left untouched; leading and
// trailing spaces are significant there.
func (r *LoginRequest) Sanitize() {
	r.Username = strings.TrimSpace(r.Username)
}

// Normalize lowercases the username to match the stored form.
func (r *LoginRequest) Normalize() {
	r.Username = strings.ToLower(r.Username)
}

// Validate enforces presence and the length bounds.
func (r *LoginRequest) Validate() error {
	return validation.Validate(r)
}

// Credentials is the one-time plaintext pair shown after instance creation.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
