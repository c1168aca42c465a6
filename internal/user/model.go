package user

import (
	"errors"
	"time"
)

type PasswordVersion int

const (
	// PasswordLegacySHA256 is an unsalted SHA-256 hex digest. Verified only.
	PasswordLegacySHA256 PasswordVersion = 1
	// PasswordArgon2id is an encoded, salted argon2id hash.
	PasswordArgon2id PasswordVersion = 2
)

const RoleAdmin = "admin"

type Admin struct {
	ID              uint
	Email           string
	PasswordHash    string
	PasswordVersion PasswordVersion
	CreatedAt       time.Time
}

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownHashVersion = errors.New("unknown password hash version")
	ErrMalformedHash      = errors.New("malformed password hash")
)
