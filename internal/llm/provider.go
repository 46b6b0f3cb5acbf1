package llm

import (
	"context"
	"fmt"
)

// Provider is a black-box text-completion backend: prompt in, raw text out.
// Implementations may return prose around any JSON payload; callers are
// responsible for extraction.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the backend identity used in routing tables and logs.
	Name() string
}

// ErrUnavailable indicates the backend is down, overloaded or unreachable.
type ErrUnavailable struct {
	Backend string
	Err     error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("backend %s unavailable: %v", e.Backend, e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates the backend returned no usable text.
type ErrEmptyResponse struct {
	Backend string
}

func (e *ErrEmptyResponse) Error() string {
	return fmt.Sprintf("backend %s returned no text content", e.Backend)
}
