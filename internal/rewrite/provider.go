// Package rewrite talks to hosted language models to soften self-critical
// text and to produce short affirmations.
package rewrite

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable means no provider is configured.
var ErrUnavailable = errors.New("rewrite provider unavailable")

type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

type Provider interface {
	ID() string
	Complete(ctx context.Context, req Request) (string, error)
}

const compassionSystem = "You are a compassionate writing assistant. You help people rewrite their thoughts to be more kind and supportive to themselves, while preserving the original meaning and emotional intent."

const affirmationSystem = "You write one short, warm affirmation for someone building healthy habits. Reply with the affirmation only, no quotes."

// Compassionate asks p for a kinder version of text.
func Compassionate(ctx context.Context, p Provider, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("nothing to rewrite")
	}

	prompt := "Rewrite this text to sound more compassionate and self-kind, while maintaining the original meaning and intent:\n\n" +
		"Original: " + text + "\n\n" +
		"Please make it more supportive and understanding, as if speaking to a friend who needs encouragement."

	out, err := p.Complete(ctx, Request{
		System:      compassionSystem,
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return cleaned(out)
}

// Affirmation asks p for a single affirmation sentence.
func Affirmation(ctx context.Context, p Provider) (string, error) {
	out, err := p.Complete(ctx, Request{
		System:      affirmationSystem,
		Prompt:      "Write today's affirmation.",
		MaxTokens:   60,
		Temperature: 0.9,
	})
	if err != nil {
		return "", err
	}
	return cleaned(strings.Trim(out, "\"\n "))
}

func cleaned(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("provider returned empty text")
	}
	return s, nil
}

// Unavailable is the provider used when no API key is configured.
type Unavailable struct{}

func (Unavailable) ID() string { return "none" }

func (Unavailable) Complete(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}
