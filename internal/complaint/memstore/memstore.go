// Package memstore provides an in-memory implementation of complaint.Store.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/linnemanlabs/locono/internal/complaint"
)

// Store holds complaints in memory. Suitable for dev/testing.
type Store struct {
	mu     sync.RWMutex
	rows   []*complaint.Complaint // ID order
	byID   map[int64]int          // complaint ID -> index into rows
	nextID int64
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		byID:   make(map[int64]int),
		nextID: 1,
	}
}

// Insert stores a copy of c under the next sequential ID and returns another copy.
func (s *Store) Insert(_ context.Context, c *complaint.Complaint) (*complaint.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clone(c)
	cp.ID = s.nextID
	s.nextID++
	s.byID[cp.ID] = len(s.rows)
	s.rows = append(s.rows, cp)
	return clone(cp), nil
}

// ListByStatus returns copies of all complaints whose status is in statuses.
func (s *Store) ListByStatus(_ context.Context, statuses ...complaint.Status) ([]*complaint.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*complaint.Complaint, 0)
	for _, r := range s.rows {
		if slices.Contains(statuses, r.Status) {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

// SetStatus changes the status of complaint id, the way an officer closing a
// case would. Returns an error if id or status is unknown.
func (s *Store) SetStatus(_ context.Context, id int64, status complaint.Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("complaint %d not found", id)
	}
	s.rows[i].Status = status
	return nil
}

func clone(c *complaint.Complaint) *complaint.Complaint {
	cp := *c
	if c.Latitude != nil {
		lat := *c.Latitude
		cp.Latitude = &lat
	}
	if c.Longitude != nil {
		lon := *c.Longitude
		cp.Longitude = &lon
	}
	return &cp
}
