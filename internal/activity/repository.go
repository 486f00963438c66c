package activity

import "context"

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

// Repository defines the interface for activity persistence.
type Repository interface {
	// Record stores an entry.
	Record(ctx context.Context, entry *Entry) error

	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]*Entry, error)
}
