// Package api exposes the complaint, alert, chat and stub endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/locono/internal/assistant"
	"github.com/linnemanlabs/locono/internal/complaint"
)

// ComplaintService defines the complaint operations the API needs.
type ComplaintService interface {
	Create(ctx context.Context, nc complaint.NewComplaint) (*complaint.Complaint, error)
	ListActive(ctx context.Context) ([]*complaint.Complaint, error)
}

// ChatResponder answers chat messages.
type ChatResponder interface {
	Respond(ctx context.Context, message string) assistant.Result
	Online() bool
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    ComplaintService
	chat   ChatResponder
}

// New creates a new API handler.
func New(logger log.Logger, svc ComplaintService, chat ChatResponder) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("complaint service is required"))
	}
	if chat == nil {
		panic(xerrors.New("chat responder is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
		chat:   chat,
	}
}

// RegisterRoutes attaches API endpoints to the router. police middleware
// wraps only the dashboard routes.
func (a *API) RegisterRoutes(r chi.Router, police ...func(http.Handler) http.Handler) {
	r.Get("/", a.handleStatus)

	r.Route("/api", func(r chi.Router) {
		r.Post("/complaints", a.handleCreateComplaint)
		r.Post("/chat", a.handleChat)

		r.Route("/police", func(r chi.Router) {
			r.Use(police...)
			r.Get("/alerts", a.handleListAlerts)
		})

		r.Route("/v1", func(r chi.Router) {
			r.Post("/incidents/report_ml_detection", a.handleReportMLDetection)
			r.Get("/map/incidents", a.handleMapIncidents)
		})
	})
}

func (a *API) handleStatus(w http.ResponseWriter, _ *http.Request) {
	ai := "active"
	if !a.chat.Online() {
		ai = "offline (check API key)"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "active",
		"database": "connected",
		"ai":       ai,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// nothing to do with errors here
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes r's JSON body into dst. It returns the status to reply
// with on failure: 400 for unparsable bodies, 422 for wrong field types.
// The body must hold exactly one JSON value.
func decodeBody(r *http.Request, dst any) (int, error) {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&json.RawMessage{}); !errors.Is(extra, io.EOF) {
			return http.StatusBadRequest, errors.New("unexpected data after JSON body")
		}
		return 0, nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return http.StatusUnprocessableEntity, err
	}
	return http.StatusBadRequest, err
}
