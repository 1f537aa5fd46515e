package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aviv90/audiokit/pkg/adapters/mix"
	"github.com/aviv90/audiokit/pkg/audio"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/llm"
	"github.com/aviv90/audiokit/pkg/logging"
)

const planSystemPrompt = `You are an audio mixing engineer. Given a creative brief and a list of
named tracks with durations, reply with a single JSON object:
{"description": "<one line describing the mix>",
 "layers": [{"source": "<track name>", "gain": <0.0-2.0>, "offset_sec": <seconds>, "repeat": <count>}]}
Every layer source must be one of the given track names. Do not add commentary.`

// Mixer renders creative mixes: an LLM turns the brief into a layer plan,
// the audio engine renders it. An unusable model reply falls back to a flat
// overlay of all tracks.
type Mixer struct {
	adapter llm.Adapter
	logger  *slog.Logger
}

type plan struct {
	Description string      `json:"description"`
	Layers      []planLayer `json:"layers"`
}

type planLayer struct {
	Source    string  `json:"source"`
	Gain      float64 `json:"gain"`
	OffsetSec float64 `json:"offset_sec"`
	Repeat    int     `json:"repeat"`
}

func NewMixer(adapter llm.Adapter) *Mixer {
	return &Mixer{
		adapter: adapter,
		logger:  logging.NewComponentLogger(slog.Default(), "studio_mixer"),
	}
}

func (m *Mixer) Name() string { return "studio" }

func (m *Mixer) Mix(ctx context.Context, req mix.Request) (mix.Result, error) {
	if len(req.Sources) == 0 {
		return mix.Result{}, errorsx.Wrap(errors.New("at least one source required"), errorsx.ReasonBadArgs)
	}

	clips := make(map[string]audio.Clip, len(req.Sources))
	order := make([]string, 0, len(req.Sources))
	rate := 0
	for _, src := range req.Sources {
		clip, err := audio.DecodeWAV(src.Audio)
		if err != nil {
			return mix.Result{}, errorsx.Wrap(fmt.Errorf("source %s: %w", src.Name, err), errorsx.ReasonBadArgs)
		}
		if rate == 0 {
			rate = clip.SampleRate
		}
		if clip.SampleRate != rate {
			return mix.Result{}, errorsx.Wrap(fmt.Errorf("source %s: sample rate %d differs from %d", src.Name, clip.SampleRate, rate), errorsx.ReasonBadArgs)
		}
		clips[src.Name] = clip
		order = append(order, src.Name)
	}

	p := m.planMix(ctx, req.Prompt, order, clips)

	layers := make([]audio.Layer, 0, len(p.Layers))
	for _, l := range p.Layers {
		clip, ok := clips[l.Source]
		if !ok {
			return mix.Result{}, errorsx.Wrap(fmt.Errorf("plan references unknown source %q", l.Source), errorsx.ReasonMixPlan)
		}
		layers = append(layers, audio.Layer{
			Clip:      clip,
			Gain:      l.Gain,
			OffsetSec: l.OffsetSec,
			Repeat:    l.Repeat,
		})
	}
	mixed, err := audio.Overlay(rate, layers)
	if err != nil {
		return mix.Result{}, errorsx.Wrap(err, errorsx.ReasonMixRender)
	}
	out, err := audio.EncodeWAV(mixed)
	if err != nil {
		return mix.Result{}, errorsx.Wrap(err, errorsx.ReasonMixRender)
	}
	m.logger.Debug("mix rendered",
		slog.Int("layers", len(layers)),
		slog.Float64("duration_sec", mixed.Duration()))
	return mix.Result{Audio: out, MimeType: "audio/wav", Plan: p.Description}, nil
}

// planMix asks the model for a layer plan; any failure degrades to the flat
// fallback rather than failing the mix.
func (m *Mixer) planMix(ctx context.Context, prompt string, order []string, clips map[string]audio.Clip) plan {
	fallback := flatPlan(order)
	if m.adapter == nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}

	var sb strings.Builder
	sb.WriteString("Brief: ")
	sb.WriteString(prompt)
	sb.WriteString("\n\nTracks:\n")
	for _, name := range order {
		fmt.Fprintf(&sb, "- %s (%.1fs)\n", name, clips[name].Duration())
	}

	resp, err := m.adapter.Generate(ctx, llm.Request{
		System:   planSystemPrompt,
		Messages: []llm.Message{{Role: "user", Content: sb.String()}},
		JSONOnly: true,
	})
	if err != nil {
		m.logger.Warn("mix plan failed, using fallback", slog.String("error", err.Error()))
		return fallback
	}
	var p plan
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &p); err != nil || len(p.Layers) == 0 {
		m.logger.Warn("unusable mix plan, using fallback")
		return fallback
	}
	for i := range p.Layers {
		if p.Layers[i].Gain < 0 || p.Layers[i].Gain > 2 {
			p.Layers[i].Gain = 1
		}
		if p.Layers[i].OffsetSec < 0 {
			p.Layers[i].OffsetSec = 0
		}
	}
	if p.Description == "" {
		p.Description = "model mix plan"
	}
	return p
}

func flatPlan(order []string) plan {
	p := plan{Description: "flat overlay of all tracks"}
	for _, name := range order {
		p.Layers = append(p.Layers, planLayer{Source: name, Gain: 1})
	}
	return p
}

func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return s
}

var _ mix.Mixer = (*Mixer)(nil)
