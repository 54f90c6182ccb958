package preferences

import (
	"errors"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daybook/internal/models"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "nested", "daybook.db"))
	if err := s.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadDefaults(t *testing.T) {
	gokeyring.MockInit()
	s := openStore(t)

	prefs, err := s.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if prefs.Theme != models.ThemeLight {
		t.Errorf("default theme = %q, want light", prefs.Theme)
	}
	if prefs.IdentityToken != "" {
		t.Errorf("expected no identity, got %q", prefs.IdentityToken)
	}
}

func TestThemePersistsAcrossReopen(t *testing.T) {
	gokeyring.MockInit()
	path := filepath.Join(t.TempDir(), "daybook.db")

	s := NewStore(path)
	if err := s.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.SetTheme(models.ThemeDark); err != nil {
		t.Fatalf("SetTheme() failed: %v", err)
	}
	s.Close()

	reopened := NewStore(path)
	if err := reopened.Open(); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	theme, err := reopened.Theme()
	if err != nil {
		t.Fatalf("Theme() failed: %v", err)
	}
	if theme != models.ThemeDark {
		t.Errorf("theme = %q, want dark", theme)
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	gokeyring.MockInit()
	s := openStore(t)
	if err := s.SetTheme("sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestIdentityTokenInKeyring(t *testing.T) {
	gokeyring.MockInit()
	s := openStore(t)

	if err := s.SetIdentityToken("tok-1"); err != nil {
		t.Fatalf("SetIdentityToken() failed: %v", err)
	}
	stored, err := gokeyring.Get("daybook", "device-identity")
	if err != nil || stored != "tok-1" {
		t.Fatalf("keyring holds %q, %v", stored, err)
	}

	got, err := s.IdentityToken()
	if err != nil || got != "tok-1" {
		t.Errorf("IdentityToken() = %q, %v", got, err)
	}

	if err := s.ClearIdentityToken(); err != nil {
		t.Fatalf("ClearIdentityToken() failed: %v", err)
	}
	if got, _ := s.IdentityToken(); got != "" {
		t.Errorf("expected cleared identity, got %q", got)
	}
}

func TestIdentityTokenFallsBackToSettings(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("keyring locked"))
	defer gokeyring.MockInit()
	s := openStore(t)

	if err := s.SetIdentityToken("tok-fallback"); err != nil {
		t.Fatalf("SetIdentityToken() failed: %v", err)
	}
	got, err := s.IdentityToken()
	if err != nil {
		t.Fatalf("IdentityToken() failed: %v", err)
	}
	if got != "tok-fallback" {
		t.Errorf("IdentityToken() = %q, want tok-fallback", got)
	}
}

func TestKeyringWriteRemovesFallbackCopy(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("keyring locked"))
	s := openStore(t)
	if err := s.SetIdentityToken("old"); err != nil {
		t.Fatalf("fallback write failed: %v", err)
	}

	gokeyring.MockInit()
	if err := s.SetIdentityToken("new"); err != nil {
		t.Fatalf("keyring write failed: %v", err)
	}
	fallback, err := s.getSetting("identity_token")
	if err != nil {
		t.Fatalf("getSetting: %v", err)
	}
	if fallback != "" {
		t.Errorf("expected fallback copy removed, got %q", fallback)
	}
}

func TestClosedStore(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "daybook.db"))
	if _, err := s.Theme(); err == nil {
		t.Error("expected error reading from an unopened store")
	}
}
