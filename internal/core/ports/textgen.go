package ports

import "context"

// TextGenerator is a single prompt-in, text-out completion call.
type TextGenerator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}
