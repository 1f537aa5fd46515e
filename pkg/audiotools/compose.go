// Package audiotools composes the fixed set of audio tools exposed to agent
// frameworks. The registry built here is the single canonical mapping; both
// named lookup and the aggregate listing read from it.
package audiotools

import (
	"context"
	"fmt"

	"github.com/aviv90/audiokit/pkg/adapters/mix"
	"github.com/aviv90/audiokit/pkg/adapters/stt"
	"github.com/aviv90/audiokit/pkg/adapters/translate"
	"github.com/aviv90/audiokit/pkg/adapters/tts"
	"github.com/aviv90/audiokit/pkg/artifacts"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/tools"
)

// The fixed tool name set. Composition never produces more or fewer.
const (
	ToolTranscribeAudio    = "transcribe_audio"
	ToolTextToSpeech       = "text_to_speech"
	ToolVoiceCloneAndSpeak = "voice_clone_and_speak"
	ToolTranslateText      = "translate_text"
	ToolTranslateAndSpeak  = "translate_and_speak"
	ToolCreativeAudioMix   = "creative_audio_mix"
)

// Names returns the fixed tool name set in composition order.
func Names() []string {
	return []string{
		ToolTranscribeAudio,
		ToolTextToSpeech,
		ToolVoiceCloneAndSpeak,
		ToolTranslateText,
		ToolTranslateAndSpeak,
		ToolCreativeAudioMix,
	}
}

// Deliverer plays a rendered artifact to a phone number and returns the
// call id. Optional; only translate_and_speak uses it.
type Deliverer interface {
	Deliver(ctx context.Context, to, artifactPath string) (string, error)
}

// Deps are the collaborators behind the six tools. All fields except
// Deliverer are required.
type Deps struct {
	Transcriber stt.Transcriber
	Synthesizer tts.Synthesizer
	Cloner      tts.VoiceCloner
	Translator  translate.Translator
	Mixer       mix.Mixer
	Store       *artifacts.Store
	Deliverer   Deliverer
}

func (d Deps) validate() error {
	missing := ""
	switch {
	case d.Transcriber == nil:
		missing = "transcriber"
	case d.Synthesizer == nil:
		missing = "synthesizer"
	case d.Cloner == nil:
		missing = "voice cloner"
	case d.Translator == nil:
		missing = "translator"
	case d.Mixer == nil:
		missing = "mixer"
	case d.Store == nil:
		missing = "artifact store"
	}
	if missing != "" {
		return errorsx.Wrap(fmt.Errorf("missing dependency: %s", missing), errorsx.ReasonCompose)
	}
	return nil
}

// Compose builds the six-tool registry. A missing dependency fails the whole
// composition; there is no partial registry.
func Compose(deps Deps) (*tools.Registry, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return tools.NewRegistry(
		NewTranscribeAudioTool(deps.Transcriber),
		NewTextToSpeechTool(deps.Synthesizer, deps.Store),
		NewVoiceCloneAndSpeakTool(deps.Cloner, deps.Synthesizer, deps.Store),
		NewTranslateTextTool(deps.Translator),
		NewTranslateAndSpeakTool(deps.Translator, deps.Synthesizer, deps.Store, deps.Deliverer),
		NewCreativeAudioMixTool(deps.Mixer, deps.Store),
	)
}
