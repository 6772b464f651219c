package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

func (s *Store) CreateJournal(entry JournalEntry) error {
	now := s.now().Unix()

	stmt, err := s.db.Prepare(`
		INSERT INTO transfer_journal (reference, stage, payload, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare SQL : %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(entry.Reference, entry.Stage, entry.Payload, entry.Error, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("journal entry '%s' already exists", entry.Reference)
		}
		return fmt.Errorf("failed to insert journal entry : %w", err)
	}
	return nil
}

// UpdateJournal moves an entry to stage. An empty payload keeps the stored one.
func (s *Store) UpdateJournal(reference, stage, payload, errMsg string) error {
	res, err := s.db.Exec(`
		UPDATE transfer_journal
		SET stage = ?,
			payload = CASE WHEN ? = '' THEN payload ELSE ? END,
			error = ?,
			updated_at = ?
		WHERE reference = ?
	`, stage, payload, payload, errMsg, s.now().Unix(), reference)
	if err != nil {
		return fmt.Errorf("failed to update journal entry '%s': %w", reference, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) GetJournal(reference string) (*JournalEntry, error) {
	entry := &JournalEntry{}
	err := s.db.QueryRow(`
		SELECT reference, stage, payload, error, created_at, updated_at
		FROM transfer_journal
		WHERE reference = ?
	`, reference).Scan(
		&entry.Reference, &entry.Stage, &entry.Payload,
		&entry.Error, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to query journal entry '%s': %w", reference, err)
	}
	return entry, nil
}

func (s *Store) ListJournalByStage(stages ...string) ([]*JournalEntry, error) {
	if len(stages) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(stages)), ",")
	args := make([]any, len(stages))
	for i, stage := range stages {
		args[i] = stage
	}

	rows, err := s.db.Query(`
		SELECT reference, stage, payload, error, created_at, updated_at
		FROM transfer_journal
		WHERE stage IN (`+placeholders+`)
		ORDER BY created_at
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []*JournalEntry
	for rows.Next() {
		entry := &JournalEntry{}
		if err := rows.Scan(
			&entry.Reference, &entry.Stage, &entry.Payload,
			&entry.Error, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
