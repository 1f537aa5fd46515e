package tts

import (
	"context"
	"io"
)

// Synthesizer defines the contract for any TTS vendor implementation.
type Synthesizer interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Synthesize renders text into audio.
	Synthesize(ctx context.Context, req SpeakRequest) (SpeakResult, error)
}

// VoiceCloner creates a reusable voice from reference samples.
type VoiceCloner interface {
	// CloneVoice uploads samples and returns the new voice id.
	CloneVoice(ctx context.Context, req CloneRequest) (string, error)
}

// SpeakRequest carries one synthesis request.
type SpeakRequest struct {
	Text string
	// VoiceID overrides the adapter's default voice when set.
	VoiceID      string
	OutputFormat string
}

// SpeakResult is a vendor-agnostic synthesis outcome.
type SpeakResult struct {
	Audio    []byte
	MimeType string
	VoiceID  string
}

// Sample is one reference recording for voice cloning.
type Sample struct {
	Name  string
	Audio io.Reader
}

// CloneRequest carries the voice name and its reference samples.
type CloneRequest struct {
	VoiceName string
	Samples   []Sample
}
