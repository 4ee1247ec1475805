// Package secrets handles one-way hashing and credential generation for the
// recruiting pipeline. Phone numbers and instance passwords are only ever
// stored as bcrypt hashes; plaintext never leaves the request that carried it.
package secrets

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	dErrors "greenleaf/pkg/domain-errors"
)

// Hashing costs per secret kind. Instance passwords guard the admin surface
// and get the higher cost.
const (
	PhoneHashCost    = 10
	PasswordHashCost = 12
)

// dummyHash is a valid bcrypt hash of an unguessable throwaway value. Login
// compares against it when the username has no record so that hash work is
// performed on both branches.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Hash creates a bcrypt hash of the provided secret at the given cost.
func Hash(secret string, cost int) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeValidation, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "secret is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash secret")
	}
	return string(hashed), nil
}

// Verify checks if a plaintext secret matches a bcrypt hash.
func Verify(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid secret")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not verify secret")
	}
	return nil
}

// DummyVerify burns one bcrypt comparison against a fixed placeholder hash.
// Called on the unknown-username branch of login so that response latency does
// not reveal whether a username exists. The result is always a rejection.
func DummyVerify(secret string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(secret))
}

// GenerateUsername returns a random 10-digit numeric username. The first
// digit is never zero so the string survives numeric round-trips.
func GenerateUsername() (string, error) {
	buf := make([]byte, 0, 10)
	first, err := randomIndex(9)
	if err != nil {
		return "", err
	}
	buf = append(buf, byte('1'+first))
	for range 9 {
		d, err := randomIndex(10)
		if err != nil {
			return "", err
		}
		buf = append(buf, byte('0'+d))
	}
	return string(buf), nil
}

// GeneratePassword returns a random 10-character alphanumeric password.
func GeneratePassword() (string, error) {
	buf := make([]byte, 0, 10)
	for range 10 {
		i, err := randomIndex(len(passwordAlphabet))
		if err != nil {
			return "", err
		}
		buf = append(buf, passwordAlphabet[i])
	}
	return string(buf), nil
}

// randomIndex draws a uniform value in [0, n) from crypto/rand.
func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "could not read random source")
	}
	return int(v.Int64()), nil
}
