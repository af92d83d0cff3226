package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groqServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestGroqCompassionate(t *testing.T) {
	srv := groqServer(t, func(w http.ResponseWriter, req chatRequest) {
		assert.Equal(t, defaultGroqModel, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "Original: I am so lazy")
		assert.Equal(t, 500, req.MaxTokens)
		reply(w, "  I am resting today, and that is okay.\n")
	})

	p := NewGroqProviderWithClient("", "test-key", srv.URL, srv.Client())
	out, err := Compassionate(context.Background(), p, "I am so lazy")
	require.NoError(t, err)
	assert.Equal(t, "I am resting today, and that is okay.", out)
	assert.Equal(t, "groq:llama3-8b-8192", p.ID())
}

func TestGroqErrors(t *testing.T) {
	srv := groqServer(t, func(w http.ResponseWriter, req chatRequest) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	p := NewGroqProviderWithClient("", "test-key", srv.URL, srv.Client())
	_, err := p.Complete(context.Background(), Request{Prompt: "hi"})
	assert.Error(t, err)

	empty := groqServer(t, func(w http.ResponseWriter, req chatRequest) {
		w.Write([]byte(`{"choices":[]}`))
	})
	p = NewGroqProviderWithClient("", "test-key", empty.URL, empty.Client())
	_, err = p.Complete(context.Background(), Request{Prompt: "hi"})
	assert.Error(t, err)

	noKey := NewGroqProvider("", "")
	_, err = noKey.Complete(context.Background(), Request{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCompassionateRejectsBlank(t *testing.T) {
	_, err := Compassionate(context.Background(), Unavailable{}, "   ")
	assert.Error(t, err)
}

type flaky struct {
	calls atomic.Int32
	fails int32
}

func (f *flaky) ID() string { return "flaky" }

func (f *flaky) Complete(ctx context.Context, req Request) (string, error) {
	if f.calls.Add(1) <= f.fails {
		return "", errors.New("temporary")
	}
	return "ok", nil
}

func TestResilientProviderRetries(t *testing.T) {
	inner := &flaky{fails: 1}
	p := NewResilientProvider(inner, 5*time.Second)

	out, err := p.Complete(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, "flaky", p.ID())
}

func TestResilientProviderGivesUp(t *testing.T) {
	inner := &flaky{fails: 10}
	p := NewResilientProvider(inner, 5*time.Second)

	_, err := p.Complete(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		cfg    Config
		wantID string
	}{
		{"no keys", Config{}, "none"},
		{"explicit none", Config{Provider: "none", GroqAPIKey: "k"}, "none"},
		{"auto groq", Config{GroqAPIKey: "k"}, "groq:llama3-8b-8192"},
		{"groq without key", Config{Provider: "groq"}, "none"},
		{"groq with model", Config{Provider: "groq", Model: "llama-3.1-8b-instant", GroqAPIKey: "k"}, "groq:llama-3.1-8b-instant"},
		{"gemini without key", Config{Provider: "gemini"}, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(ctx, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID())
		})
	}

	_, err := New(ctx, Config{Provider: "openai"})
	assert.Error(t, err)
}

func TestUnavailable(t *testing.T) {
	_, err := Affirmation(context.Background(), Unavailable{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
