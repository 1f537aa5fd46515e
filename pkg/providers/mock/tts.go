package mock

import (
	"context"
	"errors"
	"strings"

	"github.com/aviv90/audiokit/pkg/adapters/tts"
	audioengine "github.com/aviv90/audiokit/pkg/audio"
)

type TTSConfig struct {
	VoiceID    string
	SampleRate int
	Err        error
}

// Synthesizer emits a short deterministic WAV tone for any text and clones
// voices by handing out sequential ids.
type Synthesizer struct {
	cfg         TTSConfig
	SpeakCalls  int
	CloneCalls  int
	LastText    string
	LastVoiceID string
}

func NewSynthesizer(cfg TTSConfig) *Synthesizer {
	if cfg.VoiceID == "" {
		cfg.VoiceID = "mock-voice"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 8000
	}
	return &Synthesizer{cfg: cfg}
}

func (m *Synthesizer) Name() string { return "mock_tts" }

func (m *Synthesizer) Synthesize(ctx context.Context, req tts.SpeakRequest) (tts.SpeakResult, error) {
	m.SpeakCalls++
	m.LastText = req.Text
	if m.cfg.Err != nil {
		return tts.SpeakResult{}, m.cfg.Err
	}
	if strings.TrimSpace(req.Text) == "" {
		return tts.SpeakResult{}, errors.New("missing text")
	}
	voice := req.VoiceID
	if voice == "" {
		voice = m.cfg.VoiceID
	}
	m.LastVoiceID = voice

	// one silent sample per input character keeps output length deterministic
	samples := make([]int16, len(req.Text))
	data, err := audioengine.EncodeWAV(audioengine.Clip{SampleRate: m.cfg.SampleRate, Samples: samples})
	if err != nil {
		return tts.SpeakResult{}, err
	}
	return tts.SpeakResult{Audio: data, MimeType: "audio/wav", VoiceID: voice}, nil
}

func (m *Synthesizer) CloneVoice(ctx context.Context, req tts.CloneRequest) (string, error) {
	m.CloneCalls++
	if m.cfg.Err != nil {
		return "", m.cfg.Err
	}
	if req.VoiceName == "" || len(req.Samples) == 0 {
		return "", errors.New("missing voice name or samples")
	}
	return "cloned-" + req.VoiceName, nil
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
var _ tts.VoiceCloner = (*Synthesizer)(nil)
