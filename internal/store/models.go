package store

// JournalEntry records the progress of one transfer commit so a crash or
// failed compensation can be picked up again later.
type JournalEntry struct {
	Reference string
	Stage     string
	Payload   string
	Error     string
	CreatedAt int64
	UpdatedAt int64
}
