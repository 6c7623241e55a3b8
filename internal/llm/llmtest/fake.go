// Package llmtest provides an in-memory llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/village-blogger/internal/llm"
)

// Call records one generation request
type Call struct {
	Prompt string
	Tier   llm.ModelTier
}

// Fake is a scriptable llm.Client. Unset funcs return an error.
type Fake struct {
	TextFunc       func(prompt string, tier llm.ModelTier) (string, error)
	MultimodalFunc func(prompt string, tier llm.ModelTier) (*llm.Response, error)
	CapabilityErr  error

	mu    sync.Mutex
	calls []Call
}

var _ llm.Client = (*Fake)(nil)

// Reply returns a Fake that answers every text request with text
func Reply(text string) *Fake {
	return &Fake{TextFunc: func(string, llm.ModelTier) (string, error) { return text, nil }}
}

// Fail returns a Fake whose every request fails with err
func Fail(err error) *Fake {
	return &Fake{
		TextFunc:       func(string, llm.ModelTier) (string, error) { return "", err },
		MultimodalFunc: func(string, llm.ModelTier) (*llm.Response, error) { return nil, err },
	}
}

// GenerateContent implements llm.Client
func (f *Fake) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.record(prompt, tier)
	if f.TextFunc == nil {
		return "", errors.New("llmtest: no text reply scripted")
	}
	return f.TextFunc(prompt, tier)
}

// GenerateMultimodal implements llm.Client
func (f *Fake) GenerateMultimodal(_ context.Context, prompt string, tier llm.ModelTier) (*llm.Response, error) {
	f.record(prompt, tier)
	if f.MultimodalFunc == nil {
		return nil, errors.New("llmtest: no multimodal reply scripted")
	}
	return f.MultimodalFunc(prompt, tier)
}

// CheckCapabilities implements llm.Client
func (f *Fake) CheckCapabilities(context.Context, ...llm.ModelTier) error {
	return f.CapabilityErr
}

// GetModel implements llm.Client
func (f *Fake) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

// Close implements llm.Client
func (f *Fake) Close() error {
	return nil
}

// Calls returns the requests seen so far
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) record(prompt string, tier llm.ModelTier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Prompt: prompt, Tier: tier})
}
