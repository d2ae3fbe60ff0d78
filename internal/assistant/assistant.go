// Package assistant answers chat questions with the current pending alerts as
// context. It never fails outward: every call produces a Result whose Outcome
// tells the caller what happened.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/locono/internal/complaint"
)

// ResponseTokens caps the length of a single chat reply.
const ResponseTokens = 1024

// ErrEmptyReply is returned in Result.Err when the provider answered with no text.
var ErrEmptyReply = errors.New("provider returned no text")

// Outcome categorizes how a Respond call ended.
type Outcome string

const (
	// OutcomeAnswered means Reply holds the provider's text
	OutcomeAnswered Outcome = "answered"

	// OutcomeOffline means no provider is configured
	OutcomeOffline Outcome = "offline"

	// OutcomeAlertsUnavailable means pending alerts could not be loaded
	OutcomeAlertsUnavailable Outcome = "alerts_unavailable"

	// OutcomeProviderFailed means the provider call errored
	OutcomeProviderFailed Outcome = "provider_failed"

	// OutcomeEmptyReply means the provider answered without text
	OutcomeEmptyReply Outcome = "empty_reply"
)

// Result is the outcome of a single chat turn.
type Result struct {
	Outcome  Outcome
	Reply    string
	Err      error
	Model    string
	Usage    Usage
	Duration time.Duration
}

// OK reports whether Reply is usable.
func (r Result) OK() bool { return r.Outcome == OutcomeAnswered }

// User-facing texts for failed chats.
const (
	OfflineText = "AI is currently offline. Check server logs."
	ErrorText   = "I encountered an error. Please try again."
)

// FallbackText returns the reply shown to the user for a failed outcome.
func FallbackText(o Outcome) string {
	if o == OutcomeOffline {
		return OfflineText
	}
	return ErrorText
}

// AlertSource supplies the complaints that make up the chat context.
type AlertSource interface {
	ListPending(ctx context.Context) ([]*complaint.Complaint, error)
}

// Hooks are optional callbacks for observability. Nil fields are skipped.
type Hooks struct {
	OnLLMCall  func(inputTokens, outputTokens int, duration float64)
	OnComplete func(outcome Outcome, duration float64)
}

// Assistant builds alert context and relays chat messages to a Provider.
type Assistant struct {
	provider Provider
	alerts   AlertSource
	logger   log.Logger
	hooks    Hooks
}

// New creates an Assistant. A nil provider puts it in permanent offline mode.
func New(provider Provider, alerts AlertSource, logger log.Logger, hooks Hooks) *Assistant {
	if logger == nil {
		logger = log.Nop()
	}
	return &Assistant{
		provider: provider,
		alerts:   alerts,
		logger:   logger,
		hooks:    hooks,
	}
}

// Online reports whether a provider is configured.
func (a *Assistant) Online() bool {
	return a.provider != nil
}

// Respond answers message. It does not retry and never panics outward.
func (a *Assistant) Respond(ctx context.Context, message string) (res Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Result{Outcome: OutcomeProviderFailed, Err: fmt.Errorf("panic in chat: %v", p)}
		}
		res.Duration = time.Since(start)
		a.finish(ctx, res)
	}()

	if a.provider == nil {
		return Result{Outcome: OutcomeOffline}
	}

	var pending []*complaint.Complaint
	if a.alerts != nil {
		var err error
		pending, err = a.alerts.ListPending(ctx)
		if err != nil {
			return Result{Outcome: OutcomeAlertsUnavailable, Err: err}
		}
	}

	instruction := BuildSystemInstruction(BuildContext(pending))

	llmStart := time.Now()
	reply, err := a.provider.Chat(ctx, &Request{
		MaxTokens: ResponseTokens,
		Messages:  buildConversation(instruction, message),
	})
	if err != nil {
		return Result{Outcome: OutcomeProviderFailed, Err: err, Model: a.provider.Model()}
	}
	if a.hooks.OnLLMCall != nil {
		a.hooks.OnLLMCall(reply.Usage.InputTokens, reply.Usage.OutputTokens, time.Since(llmStart).Seconds())
	}

	res = Result{Reply: reply.Text, Model: reply.Model, Usage: reply.Usage}
	if strings.TrimSpace(reply.Text) == "" {
		res.Outcome = OutcomeEmptyReply
		res.Err = ErrEmptyReply
		return res
	}
	res.Outcome = OutcomeAnswered
	return res
}

func (a *Assistant) finish(ctx context.Context, res Result) {
	if a.hooks.OnComplete != nil {
		a.hooks.OnComplete(res.Outcome, res.Duration.Seconds())
	}

	fields := []any{
		"outcome", res.Outcome,
		"duration", res.Duration.Seconds(),
	}
	if res.Model != "" {
		fields = append(fields, "model", res.Model,
			"input_tokens", res.Usage.InputTokens,
			"output_tokens", res.Usage.OutputTokens,
		)
	}

	switch res.Outcome {
	case OutcomeAnswered:
		a.logger.Info(ctx, "chat answered", fields...)
	case OutcomeOffline:
		a.logger.Warn(ctx, "chat requested while assistant offline", fields...)
	default:
		a.logger.Error(ctx, res.Err, "chat failed", fields...)
	}
}
