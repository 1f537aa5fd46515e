package translate

import "context"

// Translator defines the contract for any translation implementation.
type Translator interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Translate converts text between languages.
	Translate(ctx context.Context, req Request) (Result, error)
}

// Request carries one translation request.
type Request struct {
	Text string
	// SourceLang is a hint; empty enables source detection.
	SourceLang string
	TargetLang string
}

// Result is a vendor-agnostic translation outcome.
type Result struct {
	Text string
	// DetectedSource is the source language the vendor settled on.
	DetectedSource string
}
