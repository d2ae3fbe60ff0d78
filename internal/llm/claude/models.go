package claude

import (
	"context"
	"slices"
)

// DefaultModels is the documented fallback order used when no model is
// configured, or when probing finds the configured model unavailable.
var DefaultModels = []string{
	"claude-sonnet-4-20250514",
	"claude-3-7-sonnet-latest",
	"claude-3-5-haiku-latest",
}

// ModelLister reports which models a credential can use.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Preferences returns the ordered, de-duplicated candidate list: the
// configured model first, then fallbacks, then DefaultModels.
func Preferences(configured string, fallbacks []string) []string {
	var out []string
	add := func(m string) {
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	add(configured)
	for _, m := range fallbacks {
		add(m)
	}
	for _, m := range DefaultModels {
		add(m)
	}
	return out
}

// SelectModel picks the model to use. Without a lister the first preference
// wins, so startup stays deterministic and offline-safe. With a lister the
// first available preference wins, then the first available model at all.
// ok is false when the lister reports no usable models.
func SelectModel(ctx context.Context, lister ModelLister, configured string, fallbacks []string) (model string, ok bool, err error) {
	prefs := Preferences(configured, fallbacks)
	if lister == nil {
		return prefs[0], true, nil
	}

	available, err := lister.ListModels(ctx)
	if err != nil {
		return "", false, err
	}
	model, ok = chooseModel(available, prefs)
	return model, ok, nil
}

func chooseModel(available, prefs []string) (string, bool) {
	for _, p := range prefs {
		if slices.Contains(available, p) {
			return p, true
		}
	}
	if len(available) > 0 {
		return available[0], true
	}
	return "", false
}
