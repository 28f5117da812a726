package run

import (
	"context"
	"fmt"
	"net/http"

	"gitsuggest/cli/internal/commitmsg"
	"gitsuggest/cli/internal/config"
	"gitsuggest/cli/internal/erruser"
	"gitsuggest/cli/internal/gemini"
	"gitsuggest/cli/internal/ollama"
)

// NewGenerator builds the commit message generator for cfg.Provider. The
// Gemini API key is read from the variable named by cfg.APIKeyEnv in env (nil
// means the process environment). A nil httpClient gets cfg.Timeout.
func NewGenerator(ctx context.Context, cfg *config.Config, env []string, httpClient *http.Client) (commitmsg.Generator, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	switch cfg.Provider {
	case config.ProviderOllama:
		return &commitmsg.OllamaGenerator{
			Client: ollama.NewClient(cfg.OllamaBaseURL, httpClient),
			Model:  cfg.Model,
			Options: &ollama.GenerateOptions{
				Temperature: cfg.Temperature,
				NumCtx:      cfg.ContextLimit,
			},
		}, nil
	case config.ProviderGemini:
		key := cfg.APIKey(env)
		if key == "" {
			return nil, erruser.WithHint("API key not found.", apiKeyHint(cfg.APIKeyEnv), nil)
		}
		client, err := gemini.NewClient(ctx, cfg.GeminiBaseURL, key, httpClient)
		if err != nil {
			return nil, erruser.New("Could not set up the Gemini client.", err)
		}
		return &commitmsg.GeminiGenerator{
			Client:  client,
			Model:   cfg.Model,
			Options: &gemini.Options{Temperature: cfg.Temperature},
		}, nil
	default:
		return nil, erruser.New(fmt.Sprintf("Unknown provider %q; use gemini or ollama.", cfg.Provider), nil)
	}
}

func apiKeyHint(name string) string {
	return fmt.Sprintf(`Please set the '%[1]s' environment variable:
  Windows: setx %[1]s "YOUR_API_KEY"
  Linux/Mac: export %[1]s="YOUR_API_KEY"

Or set api_key_env in your .gitcommit.yml to use another variable.`, name)
}
