package domain

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProfileNotExist = errors.New("profile does not exist")

// Profile is one famlink server account known to the client.
type Profile struct {
	Name          string
	FamilyAddress string
	AdminAddress  string
	// Insecure disables TLS on the family connection.
	Insecure bool
	// ServerKey pins the family server certificate key after first use.
	ServerKey ed25519.PublicKey

	UserID         uuid.UUID
	Email          string
	Token          string
	TokenExpiresAt time.Time
}

func (p Profile) LoggedIn(now time.Time) bool {
	return p.Token != "" && (p.TokenExpiresAt.IsZero() || now.Before(p.TokenExpiresAt))
}

type ProfileRepository interface {
	Get(name string) (Profile, error)
	Set(profile Profile) error
	Delete(name string) error
	List() ([]Profile, error)
	// Current returns the name of the profile used when none is given.
	Current() (string, error)
	SetCurrent(name string) error
}
