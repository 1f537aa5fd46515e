package stt

import (
	"context"
	"io"
)

// Transcriber defines the contract for any STT vendor implementation.
type Transcriber interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Transcribe converts recorded audio into text.
	Transcribe(ctx context.Context, req Request) (Result, error)
}

// Request carries one prerecorded audio payload.
type Request struct {
	Audio    io.Reader
	MimeType string
	// Language is a hint; empty enables vendor language detection.
	Language string
}

// Result is a vendor-agnostic transcription outcome.
type Result struct {
	Transcript  string
	Language    string
	Confidence  float64
	DurationSec float64
}
