package rewrite

import (
	"context"
	"fmt"
	"time"
)

const callTimeout = 30 * time.Second

type Config struct {
	Provider     string // "groq", "gemini", "none" or empty for the first with a key
	Model        string
	GroqAPIKey   string
	GeminiAPIKey string
}

// New picks a provider from cfg. A provider without its key yields
// Unavailable rather than an error so the service can still start.
func New(ctx context.Context, cfg Config) (Provider, error) {
	name := cfg.Provider
	if name == "" {
		switch {
		case cfg.GroqAPIKey != "":
			name = "groq"
		case cfg.GeminiAPIKey != "":
			name = "gemini"
		default:
			name = "none"
		}
	}

	switch name {
	case "none":
		return Unavailable{}, nil
	case "groq":
		if cfg.GroqAPIKey == "" {
			return Unavailable{}, nil
		}
		return NewResilientProvider(NewGroqProvider(cfg.Model, cfg.GroqAPIKey), callTimeout), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return Unavailable{}, nil
		}
		p, err := NewGeminiProvider(ctx, cfg.Model, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return NewResilientProvider(p, callTimeout), nil
	default:
		return nil, fmt.Errorf("unknown rewrite provider %q", name)
	}
}
