package mix

import "context"

// Mixer defines the contract for creative audio mixing implementations.
type Mixer interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Mix renders the sources into one track according to the prompt.
	Mix(ctx context.Context, req Request) (Result, error)
}

// Source is one input track, WAV-encoded.
type Source struct {
	Name  string
	Audio []byte
}

// Request carries the creative brief and the input tracks.
type Request struct {
	Prompt  string
	Sources []Source
}

// Result is the rendered mix plus a description of the applied plan.
type Result struct {
	Audio    []byte
	MimeType string
	Plan     string
}
