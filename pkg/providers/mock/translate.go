package mock

import (
	"context"
	"errors"

	"github.com/aviv90/audiokit/pkg/adapters/translate"
)

type TranslateConfig struct {
	// Prefix is prepended to the input so tests can see the pass-through.
	Prefix string
	Source string
	Err    error
}

// Translator echoes the input with a language prefix.
type Translator struct {
	cfg   TranslateConfig
	Calls int
}

func NewTranslator(cfg TranslateConfig) *Translator {
	if cfg.Source == "" {
		cfg.Source = "en"
	}
	return &Translator{cfg: cfg}
}

func (m *Translator) Name() string { return "mock_translate" }

func (m *Translator) Translate(ctx context.Context, req translate.Request) (translate.Result, error) {
	m.Calls++
	if m.cfg.Err != nil {
		return translate.Result{}, m.cfg.Err
	}
	if req.Text == "" || req.TargetLang == "" {
		return translate.Result{}, errors.New("missing text or target language")
	}
	prefix := m.cfg.Prefix
	if prefix == "" {
		prefix = "[" + req.TargetLang + "] "
	}
	return translate.Result{Text: prefix + req.Text, DetectedSource: m.cfg.Source}, nil
}

var _ translate.Translator = (*Translator)(nil)
