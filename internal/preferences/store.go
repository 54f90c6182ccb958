package preferences

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/keyring"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/migration"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/migrations"
)

// Preferences are the two values daybook keeps between runs
type Preferences struct {
	Theme         models.Theme
	IdentityToken string
}

// Store persists the theme in a local sqlite settings table and the identity
// token in the OS keyring, falling back to the settings table when the
// keyring cannot be used.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open creates the database if needed and brings its schema up to date
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	runner := migration.NewRunner(db, migrations.SQLite())
	if _, err := runner.Apply(logger.Debug); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) Path() string { return s.path }

// Load reads both preferences. A missing or unreadable theme falls back to light.
func (s *Store) Load() (Preferences, error) {
	theme, err := s.Theme()
	if err != nil {
		return Preferences{}, err
	}
	token, err := s.IdentityToken()
	if err != nil {
		return Preferences{}, err
	}
	return Preferences{Theme: theme, IdentityToken: token}, nil
}

func (s *Store) Theme() (models.Theme, error) {
	value, err := s.getSetting(constants.SettingTheme)
	if err != nil {
		return "", err
	}
	if value == "" {
		return models.Theme(constants.DefaultTheme), nil
	}
	theme, err := models.ParseTheme(value)
	if err != nil {
		logger.Warn("Ignoring stored theme", "value", value, "error", err)
		return models.Theme(constants.DefaultTheme), nil
	}
	return theme, nil
}

func (s *Store) SetTheme(theme models.Theme) error {
	if _, err := models.ParseTheme(string(theme)); err != nil {
		return err
	}
	return s.setSetting(constants.SettingTheme, string(theme))
}

// IdentityToken returns the stored token or "" when none exists
func (s *Store) IdentityToken() (string, error) {
	token, err := keyring.GetIdentityToken()
	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Warn("Keyring unavailable, reading identity from settings", "error", err)
	}
	return s.getSetting(constants.SettingIdentityToken)
}

// SetIdentityToken replaces any stored token so only one is ever active
func (s *Store) SetIdentityToken(token string) error {
	if token == "" {
		return s.ClearIdentityToken()
	}

	if err := keyring.SetIdentityToken(token); err != nil {
		logger.Warn("Keyring unavailable, storing identity in settings", "error", err)
		return s.setSetting(constants.SettingIdentityToken, token)
	}
	return s.deleteSetting(constants.SettingIdentityToken)
}

func (s *Store) ClearIdentityToken() error {
	if err := keyring.DeleteIdentityToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Failed to remove identity from keyring", "error", err)
	}
	return s.deleteSetting(constants.SettingIdentityToken)
}

func (s *Store) getSetting(key string) (string, error) {
	if s.db == nil {
		return "", errors.New("preference store is not open")
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setSetting(key, value string) error {
	if s.db == nil {
		return errors.New("preference store is not open")
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, ?)",
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

func (s *Store) deleteSetting(key string) error {
	if s.db == nil {
		return errors.New("preference store is not open")
	}
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}
