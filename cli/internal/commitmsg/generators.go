package commitmsg

import (
	"context"

	"gitsuggest/cli/internal/gemini"
	"gitsuggest/cli/internal/ollama"
)

// OllamaGenerator generates with a local Ollama model. Preamble is sent as
// part of the prompt, so no separate system prompt is set.
type OllamaGenerator struct {
	Client  *ollama.Client
	Model   string
	Options *ollama.GenerateOptions
}

// Generate implements Generator.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := g.Client.Generate(ctx, g.Model, "", prompt, g.Options)
	if err != nil {
		return "", err
	}
	return res.Response, nil
}

// GeminiGenerator generates with a Gemini model.
type GeminiGenerator struct {
	Client  *gemini.Client
	Model   string
	Options *gemini.Options
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.Client.GenerateContent(ctx, g.Model, prompt, g.Options)
}
