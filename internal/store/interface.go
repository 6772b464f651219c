package store

import "time"

type Repository interface {
	// Key/value client state
	Get(key string) (string, error)
	Put(key, value string, ttl time.Duration) error
	Delete(key string) error

	// Transfer journal
	CreateJournal(entry JournalEntry) error
	UpdateJournal(reference, stage, payload, errMsg string) error
	GetJournal(reference string) (*JournalEntry, error)
	ListJournalByStage(stages ...string) ([]*JournalEntry, error)

	Close() error
}
