package llm

import "context"

// Noop is used when no language model is configured. Callers fall back to
// their rule-based output.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}
