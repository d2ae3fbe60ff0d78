package api

import (
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/locono/internal/complaint"
)

type createComplaintRequest struct {
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Level       string   `json:"level"`
}

func (a *API) handleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	var req createComplaintRequest
	if status, err := decodeBody(r, &req); err != nil {
		writeError(w, status, "invalid payload")
		return
	}

	c, err := a.svc.Create(r.Context(), complaint.NewComplaint{
		Type:        req.Type,
		Location:    req.Location,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Level:       req.Level,
	})
	if errors.Is(err, complaint.ErrInvalid) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to create complaint", "type", req.Type)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.Int64("locono.complaint.id", c.ID),
		attribute.String("locono.complaint.type", c.Type),
	)

	writeJSON(w, http.StatusCreated, c)
}

func (a *API) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := a.svc.ListActive(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list active alerts")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if alerts == nil {
		alerts = []*complaint.Complaint{}
	}

	trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int("locono.alerts.count", len(alerts)))

	writeJSON(w, http.StatusOK, alerts)
}
