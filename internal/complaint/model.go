package complaint

import (
	"encoding/json"
	"time"
)

// Status tracks where a complaint is in its lifecycle.
type Status string

const (
	// StatusPending means filed, not yet picked up
	StatusPending Status = "Pending"

	// StatusInProgress means an officer is handling it
	StatusInProgress Status = "In Progress"

	// StatusResolved is terminal
	StatusResolved Status = "Resolved"
)

// DefaultLevel is the display level used when the reporter does not pick one.
const DefaultLevel = "alert-high"

// ActiveStatuses are the statuses surfaced on the police dashboard.
var ActiveStatuses = []Status{StatusPending, StatusInProgress}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Complaint is a citizen-submitted safety report.
type Complaint struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Level       string    `json:"level"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"-"`
}

// MarshalJSON renders the timestamp as fractional unix seconds, which is what
// the dashboards sort and format on.
func (c Complaint) MarshalJSON() ([]byte, error) {
	type plain Complaint
	return json.Marshal(struct {
		plain
		Timestamp float64 `json:"timestamp"`
	}{
		plain:     plain(c),
		Timestamp: UnixSeconds(c.CreatedAt),
	})
}

// UnixSeconds converts t to fractional seconds since the epoch.
func UnixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / float64(time.Second)
}

// NewComplaint is the client-supplied part of a complaint. Status and
// timestamp are never taken from the client.
type NewComplaint struct {
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Level       string   `json:"level"`
}
