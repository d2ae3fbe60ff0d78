package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/locono/internal/complaint"
)

func pending(typ string) *complaint.Complaint {
	return &complaint.Complaint{
		Type:        typ,
		Location:    "Main St",
		Description: "something happened",
		Level:       complaint.DefaultLevel,
		Status:      complaint.StatusPending,
		CreatedAt:   time.Now(),
	}
}

func TestStore_InsertAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Insert(ctx, pending("pothole"))
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if got.ID != want {
			t.Errorf("ID = %d, want %d", got.ID, want)
		}
	}
}

func TestStore_InsertDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	s := New()
	in := pending("pothole")
	if _, err := s.Insert(context.Background(), in); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if in.ID != 0 {
		t.Errorf("input ID = %d, want 0 (store must copy)", in.ID)
	}
}

func TestStore_ListByStatus(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	a, _ := s.Insert(ctx, pending("a"))
	b, _ := s.Insert(ctx, pending("b"))
	c, _ := s.Insert(ctx, pending("c"))

	if err := s.SetStatus(ctx, b.ID, complaint.StatusInProgress); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := s.SetStatus(ctx, c.ID, complaint.StatusResolved); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	tests := []struct {
		name     string
		statuses []complaint.Status
		wantIDs  []int64
	}{
		{"pending only", []complaint.Status{complaint.StatusPending}, []int64{a.ID}},
		{"active", complaint.ActiveStatuses, []int64{a.ID, b.ID}},
		{"resolved", []complaint.Status{complaint.StatusResolved}, []int64{c.ID}},
		{"no statuses", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListByStatus(ctx, tt.statuses...)
			if err != nil {
				t.Fatalf("ListByStatus: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestStore_ListReturnsCopies(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	lat := 12.97
	in := pending("pothole")
	in.Latitude = &lat
	if _, err := s.Insert(ctx, in); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	first, _ := s.ListByStatus(ctx, complaint.StatusPending)
	first[0].Status = complaint.StatusResolved
	*first[0].Latitude = 0

	second, _ := s.ListByStatus(ctx, complaint.StatusPending)
	if len(second) != 1 {
		t.Fatalf("len = %d, want 1 (caller mutation leaked into store)", len(second))
	}
	if *second[0].Latitude != 12.97 {
		t.Errorf("Latitude = %v, want 12.97", *second[0].Latitude)
	}
}

func TestStore_SetStatusUnknownID(t *testing.T) {
	t.Parallel()

	s := New()
	if err := s.SetStatus(context.Background(), 42, complaint.StatusResolved); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestStore_SetStatusUnknownStatus(t *testing.T) {
	t.Parallel()

	s := New()
	c, _ := s.Insert(context.Background(), pending("pothole"))
	if err := s.SetStatus(context.Background(), c.ID, "Closed"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestStore_ConcurrentInsertAndList(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Insert(ctx, pending(fmt.Sprintf("t-%d", i))); err != nil {
				t.Errorf("Insert: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.ListByStatus(ctx, complaint.ActiveStatuses...); err != nil {
				t.Errorf("ListByStatus: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.ListByStatus(ctx, complaint.StatusPending)
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
	seen := make(map[int64]bool)
	for _, c := range got {
		if seen[c.ID] {
			t.Errorf("duplicate ID %d", c.ID)
		}
		seen[c.ID] = true
	}
}
