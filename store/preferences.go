package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

// Preference keys used by the application.
const (
	PreferenceCurrentChecklistID   = "currentChecklistId"
	PreferenceIsInternal           = "isInternal"
	PreferenceSendChecklistContext = "shouldSendChecklistContext"
)

// GetPreference returns the value stored under key, or "" if absent.
func (s *Store) GetPreference(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "querying preference")
	}
	return value, nil
}

// SetPreference stores value under key, replacing any previous value.
func (s *Store) SetPreference(key, value string) error {
	_, err := s.db.Exec(`REPLACE INTO preferences (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return errors.Wrap(err, "writing preference")
	}
	return nil
}

// DeletePreference removes key. Deleting an absent key is a no-op.
func (s *Store) DeletePreference(key string) error {
	_, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, key)
	if err != nil {
		return errors.Wrap(err, "deleting preference")
	}
	return nil
}
