package api

import (
	"net/http"
	"strconv"
)

// ML detection and map queries are declared for the mobile clients but have
// no backing logic yet. They validate input and reply with fixed payloads.

const (
	defaultConfidence = 0.95
	defaultRadiusKM   = 5
)

var mlIncidentTypes = map[string]bool{
	"pothole":      true,
	"pedestrian":   true,
	"rash_driving": true,
}

type mlDetectionRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	IncidentType string   `json:"incident_type"`
	Confidence   *float64 `json:"confidence"`
}

func (a *API) handleReportMLDetection(w http.ResponseWriter, r *http.Request) {
	var req mlDetectionRequest
	if status, err := decodeBody(r, &req); err != nil {
		writeError(w, status, "invalid payload")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusUnprocessableEntity, "latitude and longitude are required")
		return
	}
	if !mlIncidentTypes[req.IncidentType] {
		writeError(w, http.StatusUnprocessableEntity, "incident_type must be one of pothole, pedestrian, rash_driving")
		return
	}
	confidence := defaultConfidence
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	a.logger.Info(r.Context(), "ml detection received",
		"incident_type", req.IncidentType,
		"confidence", confidence,
	)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "ML incident reported and queued for triage",
	})
}

func (a *API) handleMapIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if _, err := strconv.ParseFloat(q.Get("lat"), 64); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "lat must be a number")
		return
	}
	if _, err := strconv.ParseFloat(q.Get("lon"), 64); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "lon must be a number")
		return
	}
	radius := defaultRadiusKM
	if s := q.Get("radius_km"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "radius_km must be an integer")
			return
		}
		radius = n
	}

	a.logger.Info(r.Context(), "map incidents queried", "radius_km", radius)

	writeJSON(w, http.StatusOK, map[string]any{"incidents": []any{}})
}
