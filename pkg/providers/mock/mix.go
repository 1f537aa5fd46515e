package mock

import (
	"context"
	"errors"

	"github.com/aviv90/audiokit/pkg/adapters/mix"
)

type MixConfig struct {
	Err error
}

// Mixer returns the first source unchanged with a canned plan.
type Mixer struct {
	cfg   MixConfig
	Calls int
}

func NewMixer(cfg MixConfig) *Mixer {
	return &Mixer{cfg: cfg}
}

func (m *Mixer) Name() string { return "mock_mix" }

func (m *Mixer) Mix(ctx context.Context, req mix.Request) (mix.Result, error) {
	m.Calls++
	if m.cfg.Err != nil {
		return mix.Result{}, m.cfg.Err
	}
	if len(req.Sources) == 0 {
		return mix.Result{}, errors.New("no sources")
	}
	return mix.Result{
		Audio:    req.Sources[0].Audio,
		MimeType: "audio/wav",
		Plan:     "mock passthrough of " + req.Sources[0].Name,
	}, nil
}

var _ mix.Mixer = (*Mixer)(nil)
