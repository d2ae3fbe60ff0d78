package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/locono/internal/complaint"
)

// mockProvider implements Provider for testing.
type mockProvider struct {
	mu    sync.Mutex
	reply *Reply
	err   error
	panic bool
	reqs  []*Request
}

func (m *mockProvider) Chat(_ context.Context, req *Request) (*Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs = append(m.reqs, req)
	if m.panic {
		panic("sdk exploded")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func (m *mockProvider) Model() string { return "test-model" }

type mockAlerts struct {
	alerts []*complaint.Complaint
	err    error
}

func (m *mockAlerts) ListPending(context.Context) ([]*complaint.Complaint, error) {
	return m.alerts, m.err
}

func answered(text string) *mockProvider {
	return &mockProvider{reply: &Reply{Text: text, Model: "test-model", Usage: Usage{InputTokens: 120, OutputTokens: 30}}}
}

func TestRespond_Offline(t *testing.T) {
	t.Parallel()

	alerts := &mockAlerts{err: errors.New("should not be called")}
	a := New(nil, alerts, log.Nop(), Hooks{})

	if a.Online() {
		t.Fatal("Online() = true with nil provider")
	}
	res := a.Respond(context.Background(), "hello")
	if res.Outcome != OutcomeOffline {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeOffline)
	}
	if res.OK() {
		t.Error("offline result reported OK")
	}
}

func TestRespond_Answered(t *testing.T) {
	t.Parallel()

	p := answered("There is one pothole on Main St.")
	alerts := &mockAlerts{alerts: []*complaint.Complaint{
		{ID: 1, Type: "pothole", Location: "Main St", Description: "large pothole", Status: complaint.StatusPending},
	}}
	a := New(p, alerts, nil, Hooks{})

	res := a.Respond(context.Background(), "any alerts near me?")
	if !res.OK() {
		t.Fatalf("Outcome = %q (err %v), want answered", res.Outcome, res.Err)
	}
	if res.Reply != "There is one pothole on Main St." {
		t.Errorf("Reply = %q, want provider text verbatim", res.Reply)
	}
	if res.Usage.InputTokens != 120 || res.Usage.OutputTokens != 30 {
		t.Errorf("Usage = %+v, want 120/30", res.Usage)
	}

	if len(p.reqs) != 1 {
		t.Fatalf("provider called %d times, want 1", len(p.reqs))
	}
	msgs := p.reqs[0].Messages
	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want 3 (primer, ack, question)", len(msgs))
	}
	if msgs[0].Role != RoleUser || !strings.Contains(msgs[0].Text, "- [pothole] at Main St: large pothole") {
		t.Errorf("primer turn = %+v, want user turn with alert line", msgs[0])
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Text != Acknowledgment {
		t.Errorf("ack turn = %+v, want canned acknowledgment", msgs[1])
	}
	if msgs[2].Role != RoleUser || msgs[2].Text != "any alerts near me?" {
		t.Errorf("question turn = %+v", msgs[2])
	}
	if p.reqs[0].MaxTokens != ResponseTokens {
		t.Errorf("MaxTokens = %d, want %d", p.reqs[0].MaxTokens, ResponseTokens)
	}
}

func TestRespond_ProviderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	a := New(&mockProvider{err: boom}, &mockAlerts{}, nil, Hooks{})

	res := a.Respond(context.Background(), "hi")
	if res.Outcome != OutcomeProviderFailed {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeProviderFailed)
	}
	if !errors.Is(res.Err, boom) {
		t.Errorf("Err = %v, want %v", res.Err, boom)
	}
}

func TestRespond_ProviderPanicIsContained(t *testing.T) {
	t.Parallel()

	a := New(&mockProvider{panic: true}, &mockAlerts{}, nil, Hooks{})

	res := a.Respond(context.Background(), "hi")
	if res.Outcome != OutcomeProviderFailed {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeProviderFailed)
	}
	if res.Err == nil {
		t.Error("expected Err to describe the panic")
	}
}

func TestRespond_AlertsUnavailable(t *testing.T) {
	t.Parallel()

	p := answered("unused")
	a := New(p, &mockAlerts{err: errors.New("db locked")}, nil, Hooks{})

	res := a.Respond(context.Background(), "hi")
	if res.Outcome != OutcomeAlertsUnavailable {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeAlertsUnavailable)
	}
	if len(p.reqs) != 0 {
		t.Error("provider should not be called when alerts cannot be loaded")
	}
}

func TestRespond_EmptyReply(t *testing.T) {
	t.Parallel()

	a := New(answered("  \n"), &mockAlerts{}, nil, Hooks{})

	res := a.Respond(context.Background(), "hi")
	if res.Outcome != OutcomeEmptyReply {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeEmptyReply)
	}
	if !errors.Is(res.Err, ErrEmptyReply) {
		t.Errorf("Err = %v, want ErrEmptyReply", res.Err)
	}
}

func TestRespond_NilAlertSourceUsesEmptyContext(t *testing.T) {
	t.Parallel()

	p := answered("ok")
	a := New(p, nil, nil, Hooks{})

	if res := a.Respond(context.Background(), "hi"); !res.OK() {
		t.Fatalf("Outcome = %q, want answered", res.Outcome)
	}
	if !strings.Contains(p.reqs[0].Messages[0].Text, NoAlertsLine) {
		t.Error("primer should carry the no-alerts line")
	}
}

func TestMetricsHooks(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	ok := New(answered("fine"), &mockAlerts{}, nil, m.Hooks())
	failing := New(&mockProvider{err: errors.New("x")}, &mockAlerts{}, nil, m.Hooks())
	offline := New(nil, nil, nil, m.Hooks())

	ok.Respond(context.Background(), "a")
	ok.Respond(context.Background(), "b")
	failing.Respond(context.Background(), "c")
	offline.Respond(context.Background(), "d")

	tests := []struct {
		outcome Outcome
		want    float64
	}{
		{OutcomeAnswered, 2},
		{OutcomeProviderFailed, 1},
		{OutcomeOffline, 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.ChatsTotal.WithLabelValues(string(tt.outcome))); got != tt.want {
			t.Errorf("chats{%s} = %v, want %v", tt.outcome, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(m.LLMCalls); got != 2 {
		t.Errorf("llm calls = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.LLMTokensIn); got != 240 {
		t.Errorf("tokens in = %v, want 240", got)
	}
}

func TestFallbackText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeOffline, OfflineText},
		{OutcomeProviderFailed, ErrorText},
		{OutcomeAlertsUnavailable, ErrorText},
		{OutcomeEmptyReply, ErrorText},
	}
	for _, tt := range tests {
		if got := FallbackText(tt.outcome); got != tt.want {
			t.Errorf("FallbackText(%q) = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}
