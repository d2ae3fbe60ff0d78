package main

import (
	"context"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/locono/internal/assistant"
	vc "github.com/linnemanlabs/locono/internal/cfg"
	"github.com/linnemanlabs/locono/internal/llm/claude"
)

// newProvider builds the chat provider. It returns nil, meaning the assistant
// stays offline, when no key is configured or probing finds no usable model.
func newProvider(ctx context.Context, appCfg *vc.Config, L log.Logger) assistant.Provider {
	if appCfg.ClaudeAPIKey == "" {
		L.Warn(ctx, "no claude api key configured, chat assistant offline")
		return nil
	}

	client := claude.New(appCfg.ClaudeAPIKey, appCfg.ClaudeModel)

	var lister claude.ModelLister
	if appCfg.ClaudeProbeModels {
		lister = client
	}
	model, ok, err := claude.SelectModel(ctx, lister, appCfg.ClaudeModel, appCfg.FallbackModels())
	if err != nil {
		L.Error(ctx, err, "model probe failed, chat assistant offline")
		return nil
	}
	if !ok {
		L.Warn(ctx, "no claude models available for this key, chat assistant offline")
		return nil
	}

	L.Info(ctx, "initialized LLM provider",
		"provider", "claude",
		"model", model,
		"probed", appCfg.ClaudeProbeModels,
	)
	return client.WithModel(model)
}
