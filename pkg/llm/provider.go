package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Completion carries the model output plus the usage metadata the caller
// reports back to clients.
type Completion struct {
	Text         string
	Model        string
	TotalTokens  int
	FinishReason string
}

// DefaultTemperature applies when the caller does not set one. Zero is a
// valid temperature, so "unset" is modeled as a nil pointer, not a zero.
const DefaultTemperature = 0.7

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature *float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

// ResolveTemperature returns the requested temperature or the default.
func (o *Options) ResolveTemperature() float64 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return DefaultTemperature
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Complete sends a chat history to the model and returns the completion
	Complete(ctx context.Context, history []Message, options ...Option) (*Completion, error)
}
