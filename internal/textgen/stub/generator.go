package stub

import (
	"context"

	"nft-persona-lab/internal/textgen"
)

// Generator implements textgen.Generator for testing.
type Generator struct {
	// Response is returned verbatim when Err is nil.
	Response string
	Err      error

	// LastPrompt and LastOpts record the most recent call.
	LastPrompt string
	LastOpts   *textgen.Options
	Calls      int
}

func (g *Generator) Generate(_ context.Context, prompt string, opts *textgen.Options) (string, error) {
	g.Calls++
	g.LastPrompt = prompt
	g.LastOpts = opts
	if g.Err != nil {
		return "", g.Err
	}
	return g.Response, nil
}
