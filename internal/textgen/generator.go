// Package textgen wraps the text-generation capability consumed by the
// persona matching and deep-dive synthesis engines.
package textgen

import (
	"context"
	"errors"
)

// ErrNoCredential is returned by Disabled when no provider credential was
// configured at startup.
var ErrNoCredential = errors.New("text-generation credential unavailable")

// Options tune a single generation call.
type Options struct {
	// MaxOutputTokens caps generated length. Zero means provider default.
	MaxOutputTokens int32
}

// Generator produces text from a prompt. Synchronous request/response, no
// streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts *Options) (string, error)
}

// Disabled is a Generator used when no credential is configured. Every call
// fails with ErrNoCredential; callers with fallback policies degrade, the
// provider-delegated synthesis path surfaces the error.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, *Options) (string, error) {
	return "", ErrNoCredential
}
