package store

import (
	"github.com/pkg/errors"
)

// DeleteChecklistSession removes a checklist session. Deleting an absent id is a no-op.
func (s *Store) DeleteChecklistSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM checklist_sessions WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting checklist session")
	}
	return nil
}
