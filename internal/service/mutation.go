package service

type MutationStatus int

const (
	MutationPending MutationStatus = iota
	MutationCommitted
	MutationRolledBack
)

func (s MutationStatus) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationCommitted:
		return "committed"
	case MutationRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

type MutationKind string

const (
	MutationAddAccount     MutationKind = "add_account"
	MutationDeleteAccount  MutationKind = "delete_account"
	MutationUpdateCategory MutationKind = "update_category"
)

// Mutation tracks one optimistic change together with the list it replaced,
// so rolling back is a state transition rather than an ad hoc splice.
type Mutation[T any] struct {
	Kind     MutationKind
	Target   string
	Status   MutationStatus
	Snapshot []T
	Err      error
}

func newMutation[T any](kind MutationKind, target string, current []T) *Mutation[T] {
	return &Mutation[T]{
		Kind:     kind,
		Target:   target,
		Status:   MutationPending,
		Snapshot: append([]T(nil), current...),
	}
}

func (m *Mutation[T]) commit() {
	m.Status = MutationCommitted
}

func (m *Mutation[T]) rollback(err error) {
	m.Status = MutationRolledBack
	m.Err = err
}

// restore returns a copy of the list as it was before the change.
func (m *Mutation[T]) restore() []T {
	return append([]T(nil), m.Snapshot...)
}
