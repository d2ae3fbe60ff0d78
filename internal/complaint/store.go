package complaint

import "context"

// Store is the persistence interface for complaints.
type Store interface {
	// Insert persists c and returns the committed record with its assigned ID.
	Insert(ctx context.Context, c *Complaint) (*Complaint, error)

	// ListByStatus returns every complaint whose status is in statuses, in ID order.
	ListByStatus(ctx context.Context, statuses ...Status) ([]*Complaint, error)
}

// Notifier is told about newly filed complaints.
type Notifier interface {
	Send(ctx context.Context, c *Complaint) error
}
