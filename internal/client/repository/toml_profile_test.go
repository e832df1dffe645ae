package repository

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	client "github.com/charadev96/famlink/internal/client/domain"
)

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "famlink", "profiles.toml")
	repo := &TOMLProfileRepository{FilePath: path}

	if _, err := repo.Current(); !errors.Is(err, client.ErrProfileNotExist) {
		t.Fatalf("expected empty repository, got %v", err)
	}

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	home := client.Profile{
		Name:           "home",
		FamilyAddress:  "famlink.example.com:7400",
		AdminAddress:   "127.0.0.1:7401",
		ServerKey:      pub,
		UserID:         uuid.New(),
		Email:          "dad@example.com",
		Token:          "token",
		TokenExpiresAt: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.Set(home); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(client.Profile{Name: "dev", FamilyAddress: "localhost:7400", Insecure: true}); err != nil {
		t.Fatal(err)
	}

	// A fresh repository reads what the first one wrote.
	other := &TOMLProfileRepository{FilePath: path}
	got, err := other.Get("home")
	if err != nil {
		t.Fatal(err)
	}
	if got.FamilyAddress != home.FamilyAddress || got.UserID != home.UserID || got.Token != "token" {
		t.Fatalf("unexpected profile %+v", got)
	}
	if !got.ServerKey.Equal(pub) || !got.TokenExpiresAt.Equal(home.TokenExpiresAt) {
		t.Fatalf("pinned key or expiry lost: %+v", got)
	}
	current, err := other.Current()
	if err != nil || current != "home" {
		t.Fatalf("expected first profile to become current, got %q %v", current, err)
	}
	dev, err := other.Get("dev")
	if err != nil || !dev.Insecure || dev.ServerKey != nil || dev.UserID != uuid.Nil {
		t.Fatalf("unexpected dev profile %+v %v", dev, err)
	}

	list, err := other.List()
	if err != nil || len(list) != 2 || list[0].Name != "dev" {
		t.Fatalf("unexpected list %+v %v", list, err)
	}

	if err := other.SetCurrent("dev"); err != nil {
		t.Fatal(err)
	}
	if err := other.SetCurrent("nope"); !errors.Is(err, client.ErrProfileNotExist) {
		t.Fatalf("expected missing profile, got %v", err)
	}
	if err := other.Delete("dev"); err != nil {
		t.Fatal(err)
	}
	if _, err := other.Current(); !errors.Is(err, client.ErrProfileNotExist) {
		t.Fatalf("deleting the current profile clears the selection, got %v", err)
	}
	if err := other.Delete("dev"); !errors.Is(err, client.ErrProfileNotExist) {
		t.Fatalf("expected missing profile, got %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != permRepository {
		t.Fatalf("profiles hold tokens and must be private, got %v", info.Mode().Perm())
	}
}

func TestProfileReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	repo := &TOMLProfileRepository{FilePath: path}
	if err := repo.Set(client.Profile{Name: "home", FamilyAddress: "a:1"}); err != nil {
		t.Fatal(err)
	}

	edited := "current = \"home\"\n\n[profiles.home]\nfamilyAddress = \"b:2\"\n"
	if err := os.WriteFile(path, []byte(edited), 0600); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Get("home")
	if err != nil {
		t.Fatal(err)
	}
	if got.FamilyAddress != "b:2" {
		t.Fatalf("expected external edit to be picked up, got %q", got.FamilyAddress)
	}
}

func TestProfileRejectsBadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	content := "[profiles.home]\nfamilyAddress = \"a:1\"\nserverKey = \"abcd\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	repo := &TOMLProfileRepository{FilePath: path}
	if _, err := repo.Get("home"); err == nil || !strings.Contains(err.Error(), "failed to load") {
		t.Fatalf("expected load error, got %v", err)
	}
}
