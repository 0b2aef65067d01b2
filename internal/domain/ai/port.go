package ai

import "context"

// Generator is the model invocation port. The prompt goes in, raw text
// comes out; any non-error return is a candidate response for parsing.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
