package repository

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	client "github.com/charadev96/famlink/internal/client/domain"
)

const (
	permRepository = 0600
	permDir        = 0700
)

// TOMLProfileRepository keeps profiles in a TOML file. The file is reloaded
// whenever its modification time changes, and created on first write.
type TOMLProfileRepository struct {
	FilePath string

	data       schema
	modifiedAt time.Time
}

func (r *TOMLProfileRepository) Get(name string) (client.Profile, error) {
	if err := r.refresh(); err != nil {
		return client.Profile{}, err
	}
	p, ok := r.data.Profiles[name]
	if !ok {
		return client.Profile{}, fmt.Errorf("failed to get profile %q: %w", name, client.ErrProfileNotExist)
	}
	return p.toDomain(name), nil
}

func (r *TOMLProfileRepository) Set(profile client.Profile) error {
	if profile.Name == "" {
		return errors.New("failed to save profile: empty name")
	}
	if err := r.refresh(); err != nil {
		return err
	}
	p, ok := r.data.Profiles[profile.Name]
	if !ok {
		p = &profileRecord{}
		r.data.Profiles[profile.Name] = p
	}
	p.fromDomain(profile)
	if r.data.Current == "" {
		r.data.Current = profile.Name
	}
	return r.save()
}

func (r *TOMLProfileRepository) Delete(name string) error {
	if err := r.refresh(); err != nil {
		return err
	}
	if _, ok := r.data.Profiles[name]; !ok {
		return fmt.Errorf("failed to delete profile %q: %w", name, client.ErrProfileNotExist)
	}
	delete(r.data.Profiles, name)
	if r.data.Current == name {
		r.data.Current = ""
	}
	return r.save()
}

func (r *TOMLProfileRepository) List() ([]client.Profile, error) {
	if err := r.refresh(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(r.data.Profiles))
	for name := range r.data.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	profiles := make([]client.Profile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, r.data.Profiles[name].toDomain(name))
	}
	return profiles, nil
}

func (r *TOMLProfileRepository) Current() (string, error) {
	if err := r.refresh(); err != nil {
		return "", err
	}
	if r.data.Current == "" {
		return "", fmt.Errorf("no current profile: %w", client.ErrProfileNotExist)
	}
	return r.data.Current, nil
}

func (r *TOMLProfileRepository) SetCurrent(name string) error {
	if err := r.refresh(); err != nil {
		return err
	}
	if _, ok := r.data.Profiles[name]; !ok {
		return fmt.Errorf("failed to select profile %q: %w", name, client.ErrProfileNotExist)
	}
	r.data.Current = name
	return r.save()
}

type publicKey struct {
	value ed25519.PublicKey
}

func (p *publicKey) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		p.value = nil
		return nil
	}
	value := make([]byte, ed25519.PublicKeySize)
	if hex.DecodedLen(len(text)) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key length %d", hex.DecodedLen(len(text)))
	}
	if _, err := hex.Decode(value, text); err != nil {
		return err
	}
	p.value = value
	return nil
}

func (p publicKey) MarshalText() ([]byte, error) {
	text := make([]byte, hex.EncodedLen(len(p.value)))
	hex.Encode(text, p.value)
	return text, nil
}

type profileRecord struct {
	FamilyAddress  string    `toml:"familyAddress"`
	AdminAddress   string    `toml:"adminAddress,omitempty"`
	Insecure       bool      `toml:"insecure,omitempty"`
	ServerKey      publicKey `toml:"serverKey,omitempty"`
	UserID         string    `toml:"userID,omitempty"`
	Email          string    `toml:"email,omitempty"`
	Token          string    `toml:"token,omitempty"`
	TokenExpiresAt time.Time `toml:"tokenExpiresAt,omitempty"`
}

func (p *profileRecord) toDomain(name string) client.Profile {
	id, _ := uuid.Parse(p.UserID)
	return client.Profile{
		Name:           name,
		FamilyAddress:  p.FamilyAddress,
		AdminAddress:   p.AdminAddress,
		Insecure:       p.Insecure,
		ServerKey:      p.ServerKey.value,
		UserID:         id,
		Email:          p.Email,
		Token:          p.Token,
		TokenExpiresAt: p.TokenExpiresAt,
	}
}

func (p *profileRecord) fromDomain(profile client.Profile) {
	p.FamilyAddress = profile.FamilyAddress
	p.AdminAddress = profile.AdminAddress
	p.Insecure = profile.Insecure
	p.ServerKey = publicKey{value: profile.ServerKey}
	p.UserID = ""
	if profile.UserID != uuid.Nil {
		p.UserID = profile.UserID.String()
	}
	p.Email = profile.Email
	p.Token = profile.Token
	p.TokenExpiresAt = profile.TokenExpiresAt
}

type schema struct {
	Current  string                    `toml:"current"`
	Profiles map[string]*profileRecord `toml:"profiles"`
}

// refresh reloads the file when it changed on disk. A missing file is an
// empty repository.
func (r *TOMLProfileRepository) refresh() error {
	if r.data.Profiles == nil {
		r.data.Profiles = make(map[string]*profileRecord)
	}
	info, err := os.Stat(r.FilePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file timestamp: %w", err)
	}
	if r.modifiedAt.Equal(info.ModTime()) {
		return nil
	}
	if err := r.load(); err != nil {
		return err
	}
	r.modifiedAt = info.ModTime()
	return nil
}

func (r *TOMLProfileRepository) load() error {
	data := schema{}
	if _, err := toml.DecodeFile(r.FilePath, &data); err != nil {
		return fmt.Errorf("failed to load repository: %w", err)
	}
	if data.Profiles == nil {
		data.Profiles = make(map[string]*profileRecord)
	}
	r.data = data
	return nil
}

func (r *TOMLProfileRepository) save() error {
	if err := os.MkdirAll(filepath.Dir(r.FilePath), permDir); err != nil {
		return fmt.Errorf("failed to save repository: %w", err)
	}
	file, err := os.OpenFile(r.FilePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, permRepository)
	if err != nil {
		return fmt.Errorf("failed to save repository: %w", err)
	}
	defer file.Close()
	enc := toml.NewEncoder(file)
	enc.Indent = ""
	if err := enc.Encode(r.data); err != nil {
		return fmt.Errorf("failed to save repository: %w", err)
	}
	if info, err := file.Stat(); err == nil {
		r.modifiedAt = info.ModTime()
	}
	return nil
}
