package mock

import (
	"context"
	"errors"
	"io"

	"github.com/aviv90/audiokit/pkg/adapters/stt"
)

type STTConfig struct {
	Transcript string
	Language   string
	Confidence float64
	Err        error
}

// Transcriber returns a canned transcript for any audio.
type Transcriber struct {
	cfg   STTConfig
	Calls int
}

func NewTranscriber(cfg STTConfig) *Transcriber {
	if cfg.Transcript == "" {
		cfg.Transcript = "mock transcript"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Confidence == 0 {
		cfg.Confidence = 0.95
	}
	return &Transcriber{cfg: cfg}
}

func (m *Transcriber) Name() string { return "mock_stt" }

func (m *Transcriber) Transcribe(ctx context.Context, req stt.Request) (stt.Result, error) {
	m.Calls++
	if m.cfg.Err != nil {
		return stt.Result{}, m.cfg.Err
	}
	if req.Audio == nil {
		return stt.Result{}, errors.New("missing audio")
	}
	n, _ := io.Copy(io.Discard, req.Audio)
	return stt.Result{
		Transcript:  m.cfg.Transcript,
		Language:    m.cfg.Language,
		Confidence:  m.cfg.Confidence,
		DurationSec: float64(n) / 16000,
	}, nil
}

var _ stt.Transcriber = (*Transcriber)(nil)
