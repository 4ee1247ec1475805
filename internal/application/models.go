// Package application implements the public recruiting pipeline: request
// validation, phone hashing, duplicate detection, and applicant persistence.
package application

import (
	"regexp"
	"strings"
	"time"

	dErrors "greenleaf/pkg/domain-errors"
	"greenleaf/pkg/validation"
)

// StatusPending is the status of every stored application. Records are never
// mutated or deleted.
const StatusPending = "pending"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Application is one applicant record. The raw phone number is never stored;
// only the bcrypt hash and a masked display form survive.
type Application struct {
	ID            string
	Name          string
	Email         string
	PhoneHash     string
	PhoneDisplay  string
	SubmittedAt   time.Time
	SubmittedFrom string
	SubmittedWith string
	Status        string
}

// SubmitRequest is the POST /api/applications body.
type SubmitRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,max=20"`
}

// Sanitize trims all fields and strips phone characters outside digits, the
// plus sign, and the usual separators. The name is stored as submitted;
// escaping happens at render time.
func (r *SubmitRequest) Sanitize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = sanitizePhone(strings.TrimSpace(r.Phone))
}

// Normalize lowercases the email so uniqueness is case-insensitive.
func (r *SubmitRequest) Normalize() {
	r.Email = strings.ToLower(r.Email)
}

// Validate enforces presence and length via struct tags, then the email and
// phone formats. The phone format check ignores separators; they are kept in
// the sanitized value for display.
func (r *SubmitRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	if !emailPattern.MatchString(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Invalid email format")
	}
	if !phonePattern.MatchString(phoneSeparators.Replace(r.Phone)) {
		return dErrors.New(dErrors.CodeValidation, "Invalid phone number format")
	}
	return nil
}

func sanitizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9', r == '+', r == '-', r == ' ', r == '(', r == ')':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone reduces a sanitized phone number to its first three and last two
// characters for display. Numbers too short to mask meaningfully are fully
// redacted.
func MaskPhone(phone string) string {
	if len(phone) <= 5 {
		return "***"
	}
	return phone[:3] + "***" + phone[len(phone)-2:]
}
