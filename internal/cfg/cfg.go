package cfg

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"
)

// Config adds app-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	DatabasePath          string
	DatabaseURL           string
	ClaudeAPIKey          string
	ClaudeModel           string
	ClaudeFallbackModels  string
	ClaudeProbeModels     bool
	PoliceAPIToken        string
	SlackWebhookURL       string
	CORSOrigins           string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8000, "API listen TCP port (1..65535)")
	fs.StringVar(&c.DatabasePath, "database-path", "safety_app.db", "SQLite database file (used when -database-url is empty)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = SQLite at -database-path)")
	fs.StringVar(&c.ClaudeAPIKey, "claude-api-key", "", "API key for the Claude chat assistant (empty = assistant offline)")
	fs.StringVar(&c.ClaudeModel, "claude-model", "claude-sonnet-4-20250514", "Claude model to use")
	fs.StringVar(&c.ClaudeFallbackModels, "claude-fallback-models", "", "comma-separated models to try when -claude-model is unavailable")
	fs.BoolVar(&c.ClaudeProbeModels, "claude-probe-models", false, "check model availability against the API once at startup")
	fs.StringVar(&c.PoliceAPIToken, "police-api-token", "", "comma-separated bearer tokens accepted on police dashboard routes (empty = open)")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for new complaint notifications")
	fs.StringVar(&c.CORSOrigins, "cors-origins", "*", "comma-separated allowed CORS origins")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// One of the two stores must be configured
	if c.DatabaseURL == "" && strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required when DATABASE_URL is empty"))
	}

	// Probing needs a credential to ask with
	if c.ClaudeProbeModels && c.ClaudeAPIKey == "" {
		errs = append(errs, errors.New("CLAUDE_PROBE_MODELS requires CLAUDE_API_KEY"))
	}

	if c.SlackWebhookURL != "" {
		u, err := url.Parse(c.SlackWebhookURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid SLACK_WEBHOOK_URL %q (must be an http(s) URL)", c.SlackWebhookURL))
		}
	}

	if len(c.AllowedOrigins()) == 0 {
		errs = append(errs, errors.New("CORS_ORIGINS must list at least one origin"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// FallbackModels returns the parsed -claude-fallback-models list.
func (c *Config) FallbackModels() []string {
	return splitList(c.ClaudeFallbackModels)
}

// PoliceTokens returns the parsed -police-api-token list.
func (c *Config) PoliceTokens() []string {
	return splitList(c.PoliceAPIToken)
}

// AllowedOrigins returns the parsed -cors-origins list.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
