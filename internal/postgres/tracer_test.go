package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/linnemanlabs/go-core/log"
)

func TestShortenFuncName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full path", "github.com/linnemanlabs/locono/internal/complaint/pgstore.(*Store).Insert", "(*Store).Insert"},
		{"already short", "(*Store).Insert", "Insert"},
		{"empty string", "", ""},
		{"no dots", "main", "main"},
		{"no slashes", "pgstore.(*Store).ListByStatus", "(*Store).ListByStatus"},
		{"single segment", "foo.Bar", "Bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := shortenFuncName(tt.in)
			if got != tt.want {
				t.Errorf("shortenFuncName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabelFromContext(t *testing.T) {
	t.Parallel()

	method, route := labelFromContext(context.Background())
	if method != "UNKNOWN" || route != "unknown" {
		t.Errorf("empty ctx labels = (%q, %q), want (UNKNOWN, unknown)", method, route)
	}

	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/api/police/alerts"}
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, rctx)
	ctx = WithHTTPMethod(ctx, "GET")

	method, route = labelFromContext(ctx)
	if method != "GET" {
		t.Errorf("method = %q, want GET", method)
	}
	if route != "/api/police/alerts" {
		t.Errorf("route = %q, want /api/police/alerts", route)
	}
}

func TestWithHTTPMethod_Empty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := WithHTTPMethod(ctx, ""); got != ctx {
		t.Error("WithHTTPMethod with empty method should return ctx unchanged")
	}
}

// Tests below touch the global observer and must not run in parallel.

func TestSetQueryObserver(t *testing.T) {
	defer SetQueryObserver(nil)

	called := false
	SetQueryObserver(QueryObserverFunc(func(_ context.Context, _, _, _ string, _ time.Duration) {
		called = true
	}))

	got := getQueryObserver()
	if got == nil {
		t.Fatal("expected non-nil observer after Set")
	}
	got.ObserveQuery(context.Background(), "GET", "/test", "ok", time.Millisecond)
	if !called {
		t.Error("observer was not called")
	}

	SetQueryObserver(nil)
	if getQueryObserver() != nil {
		t.Error("expected nil observer after Set(nil)")
	}
}

func TestLoggingTracer_ObservesOutcome(t *testing.T) {
	defer SetQueryObserver(nil)

	tests := []struct {
		name        string
		err         error
		wantOutcome string
	}{
		{"success", nil, "ok"},
		{"failure", errors.New("connection reset"), "error"},
		{"pg error", &pgconn.PgError{Code: "23505", ConstraintName: "complaints_pkey"}, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotOutcome string
			SetQueryObserver(QueryObserverFunc(func(_ context.Context, method, _, outcome string, _ time.Duration) {
				gotMethod = method
				gotOutcome = outcome
			}))

			tr := wrapQueryTracer(nil)
			ctx := log.WithContext(context.Background(), log.Nop())
			ctx = WithHTTPMethod(ctx, "POST")
			ctx = tr.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{SQL: "INSERT INTO complaints ...", Args: []any{1}})
			tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{
				CommandTag: pgconn.NewCommandTag("INSERT 0 1"),
				Err:        tt.err,
			})

			if gotMethod != "POST" {
				t.Errorf("method = %q, want POST", gotMethod)
			}
			if gotOutcome != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", gotOutcome, tt.wantOutcome)
			}
		})
	}
}

func TestLoggingTracer_EndWithoutStart(t *testing.T) {
	defer SetQueryObserver(nil)

	called := false
	SetQueryObserver(QueryObserverFunc(func(context.Context, string, string, string, time.Duration) {
		called = true
	}))

	// must not panic or observe without start data
	wrapQueryTracer(nil).TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	if called {
		t.Error("observer called for query with no start data")
	}
}
