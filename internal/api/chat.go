package api

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/locono/internal/assistant"
)

const defaultUserContext = "User is on the dashboard"

type chatRequest struct {
	Message     *string `json:"message"`
	UserContext string  `json:"user_context"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// handleChat always answers 200 once the body is valid; assistant failures
// are reported in the reply text.
func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if status, err := decodeBody(r, &req); err != nil {
		writeError(w, status, "invalid payload")
		return
	}
	if req.Message == nil {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}
	if req.UserContext == "" {
		req.UserContext = defaultUserContext
	}

	a.logger.Info(r.Context(), "chat request", "user_context", req.UserContext)

	res := a.chat.Respond(r.Context(), *req.Message)

	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("locono.chat.outcome", string(res.Outcome)),
	)

	text := res.Reply
	if !res.OK() {
		text = assistant.FallbackText(res.Outcome)
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: text})
}
