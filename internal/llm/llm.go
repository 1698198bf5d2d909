package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AgusMolinaCode/stockly/internal/config"
)

var (
	// ErrNotConfigured is returned by every generator built without credentials
	ErrNotConfigured = errors.New("language model not configured")
	// ErrEmptyResponse is returned when the provider answered with no text
	ErrEmptyResponse = errors.New("language model returned an empty response")
)

// Request is a single-turn completion
type Request struct {
	System    string
	Prompt    string
	MaxTokens int // 0 uses the provider default from config
}

// TextGenerator produces free text for a prompt
type TextGenerator interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the generator selected by cfg.LLM.Provider, wrapped for
// observability. A provider without an API key yields the noop generator.
func New(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	var gen TextGenerator
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if cfg.LLM.APIKey == "" {
			return Wrap(NewNoop(), "none"), nil
		}
		gen = NewOpenAI(cfg)
	case "gemini":
		if cfg.LLM.APIKey == "" {
			return Wrap(NewNoop(), "none"), nil
		}
		g, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini client: %w", err)
		}
		gen = g
	case "none", "":
		gen = NewNoop()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
	return Wrap(gen, cfg.LLM.Provider), nil
}
