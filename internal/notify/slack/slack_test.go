package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/linnemanlabs/locono/internal/complaint"
)

func ptr(f float64) *float64 { return &f }

func TestSend_PostsToWebhook(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	c := &complaint.Complaint{
		ID:          17,
		Type:        "harassment",
		Location:    "Sector 4",
		Description: "group following people near the metro exit",
		Latitude:    ptr(28.5355),
		Longitude:   ptr(77.391),
		Level:       "alert-high",
		Status:      complaint.StatusPending,
		CreatedAt:   time.Date(2026, 2, 26, 14, 23, 0, 0, time.UTC),
	}

	if err := n.Send(context.Background(), c); err != nil {
		t.Fatalf("Send: %v", err)
	}

	blocks, ok := got["blocks"].([]any)
	if !ok {
		t.Fatal("expected blocks array in payload")
	}

	// header, divider, fields, description, divider, context = 6 blocks
	if len(blocks) != 6 {
		t.Fatalf("blocks count = %d, want 6", len(blocks))
	}

	header := blocks[0].(map[string]any)
	headerText := header["text"].(map[string]any)["text"].(string)
	if !strings.Contains(headerText, "harassment") {
		t.Errorf("header text = %q, want to contain complaint type", headerText)
	}
	if !strings.Contains(headerText, "\U0001f534") {
		t.Errorf("header should contain red circle for alert-high")
	}

	fields, _ := json.Marshal(blocks[2])
	for _, want := range []string{"Sector 4", "28.53550, 77.39100", "Pending", "alert-high"} {
		if !strings.Contains(string(fields), want) {
			t.Errorf("fields block missing %q: %s", want, fields)
		}
	}

	ctxText, _ := json.Marshal(blocks[5])
	if !strings.Contains(string(ctxText), "complaint #17") || !strings.Contains(string(ctxText), "2026-02-26 14:23 UTC") {
		t.Errorf("context block = %s", ctxText)
	}
}

func TestSend_NoOpWithoutURL(t *testing.T) {
	t.Parallel()

	n := New("")
	if err := n.Send(context.Background(), &complaint.Complaint{}); err != nil {
		t.Fatalf("Send with empty URL should be no-op, got: %v", err)
	}
}

func TestSend_TruncatesLongDescription(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Send(context.Background(), &complaint.Complaint{
		ID:          3,
		Type:        "pothole",
		Description: strings.Repeat("x", 4000),
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	blocks := got["blocks"].([]any)
	text := blocks[3].(map[string]any)["text"].(map[string]any)["text"].(string)

	if len(text) > maxDescriptionLen {
		t.Errorf("description length = %d, expected <= %d", len(text), maxDescriptionLen)
	}
	if !strings.HasSuffix(text, "...") {
		t.Error("expected truncated description to end with ...")
	}
}

func TestSend_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Send(context.Background(), &complaint.Complaint{ID: 9, Status: complaint.StatusPending})
	if err == nil {
		t.Fatal("expected error on non-OK status")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %q, want to contain status code 500", err.Error())
	}
}

func TestLevelEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  string
	}{
		{"alert-high", "\U0001f534"},
		{"ALERT-HIGH", "\U0001f534"},
		{"alert-med", "\U0001f7e1"},
		{"alert-low", "\U0001f7e2"},
		{"", "\U0001f7e2"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			if got := levelEmoji(tt.level); got != tt.want {
				t.Errorf("levelEmoji(%q) = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    complaint.Complaint
		want string
	}{
		{"both", complaint.Complaint{Latitude: ptr(12.9716), Longitude: ptr(77.5946)}, "12.97160, 77.59460"},
		{"none", complaint.Complaint{}, "n/a"},
		{"lat only", complaint.Complaint{Latitude: ptr(1)}, "n/a"},
	}
	for _, tt := range tests {
		if got := coordinates(&tt.c); got != tt.want {
			t.Errorf("%s: coordinates() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("é", 10) // 2 bytes each
	got := truncate(s, 8)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if len(got) > 8 {
		t.Errorf("len = %d, want <= 8", len(got))
	}
	if truncate("short", 10) != "short" {
		t.Error("short strings must be returned unchanged")
	}
}

func FuzzSlackBuild(f *testing.F) {
	f.Add("pothole", "Main St", "large pothole", "alert-high")
	f.Add("", "", "", "")
	f.Add("<@U123> mention", "MG Road", "*bold* _italic_ ~strike~", "alert-med")
	f.Add("type\x00\x01\x02", "loc\nline", "desc\ttab", "l\x00vel")
	f.Add(strings.Repeat("A", 5000), "x", strings.Repeat("é", 10000), "alert-low")
	f.Add("fire", "Market", "```code block``` and <http://example.com|link>", "other")

	f.Fuzz(func(t *testing.T, typ, location, description, level string) {
		c := &complaint.Complaint{
			ID:          1,
			Type:        typ,
			Location:    location,
			Description: description,
			Level:       level,
			Status:      complaint.StatusPending,
			CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		// Must not panic
		msg := buildMessage(c)

		// Must produce valid JSON
		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("buildMessage produced non-marshalable output: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("buildMessage JSON does not decode: %v", err)
		}

		blocks, ok := decoded["blocks"].([]any)
		if !ok {
			t.Fatal("expected blocks array")
		}
		if len(blocks) != 6 {
			t.Fatalf("blocks count = %d, want 6", len(blocks))
		}
	})
}
