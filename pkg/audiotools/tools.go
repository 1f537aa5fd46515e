package audiotools

import (
	"context"
	"fmt"
	"os"

	"github.com/aviv90/audiokit/pkg/adapters/mix"
	"github.com/aviv90/audiokit/pkg/adapters/stt"
	"github.com/aviv90/audiokit/pkg/adapters/translate"
	"github.com/aviv90/audiokit/pkg/adapters/tts"
	"github.com/aviv90/audiokit/pkg/artifacts"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/tools"
)

// NewTranscribeAudioTool converts a recorded audio file into text.
func NewTranscribeAudioTool(transcriber stt.Transcriber) tools.Tool {
	return tools.Tool{
		Name:        ToolTranscribeAudio,
		Description: "Transcribe an audio file into text, detecting the spoken language when none is given.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"audio_path": map[string]any{"type": "string"},
				"language":   map[string]any{"type": "string"},
			},
			"required": []string{"audio_path"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			path, err := requiredString(args, "audio_path")
			if err != nil {
				return "", err
			}
			file, err := os.Open(path)
			if err != nil {
				return "", errorsx.Wrap(err, errorsx.ReasonBadArgs)
			}
			defer file.Close()

			result, err := transcriber.Transcribe(ctx, stt.Request{
				Audio:    file,
				Language: optionalString(args, "language"),
			})
			if err != nil {
				return "", err
			}
			return jsonResult(map[string]any{
				"transcript":   result.Transcript,
				"language":     result.Language,
				"confidence":   result.Confidence,
				"duration_sec": result.DurationSec,
			})
		},
	}
}

// NewTextToSpeechTool renders text as an audio artifact.
func NewTextToSpeechTool(synth tts.Synthesizer, store *artifacts.Store) tools.Tool {
	return tools.Tool{
		Name:        ToolTextToSpeech,
		Description: "Synthesize speech from text and return the path of the rendered audio file.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":          map[string]any{"type": "string"},
				"voice_id":      map[string]any{"type": "string"},
				"output_format": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			text, err := requiredString(args, "text")
			if err != nil {
				return "", err
			}
			result, err := synth.Synthesize(ctx, tts.SpeakRequest{
				Text:         text,
				VoiceID:      optionalString(args, "voice_id"),
				OutputFormat: optionalString(args, "output_format"),
			})
			if err != nil {
				return "", err
			}
			path, err := store.Put(extForMime(result.MimeType), result.Audio)
			if err != nil {
				return "", err
			}
			return jsonResult(map[string]any{
				"audio_path": path,
				"mime_type":  result.MimeType,
				"voice_id":   result.VoiceID,
			})
		},
	}
}

// NewVoiceCloneAndSpeakTool clones a voice from samples and speaks with it.
func NewVoiceCloneAndSpeakTool(cloner tts.VoiceCloner, synth tts.Synthesizer, store *artifacts.Store) tools.Tool {
	return tools.Tool{
		Name:        ToolVoiceCloneAndSpeak,
		Description: "Clone a voice from reference recordings, then synthesize the given text with the cloned voice.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":       map[string]any{"type": "string"},
				"voice_name": map[string]any{"type": "string"},
				"sample_paths": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []string{"text", "voice_name", "sample_paths"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			text, err := requiredString(args, "text")
			if err != nil {
				return "", err
			}
			voiceName, err := requiredString(args, "voice_name")
			if err != nil {
				return "", err
			}
			paths, err := requiredStringSlice(args, "sample_paths")
			if err != nil {
				return "", err
			}

			samples := make([]tts.Sample, 0, len(paths))
			files := make([]*os.File, 0, len(paths))
			defer func() {
				for _, f := range files {
					f.Close()
				}
			}()
			for _, p := range paths {
				f, err := os.Open(p)
				if err != nil {
					return "", errorsx.Wrap(err, errorsx.ReasonBadArgs)
				}
				files = append(files, f)
				samples = append(samples, tts.Sample{Name: f.Name(), Audio: f})
			}

			voiceID, err := cloner.CloneVoice(ctx, tts.CloneRequest{VoiceName: voiceName, Samples: samples})
			if err != nil {
				return "", err
			}
			result, err := synth.Synthesize(ctx, tts.SpeakRequest{Text: text, VoiceID: voiceID})
			if err != nil {
				return "", err
			}
			path, err := store.Put(extForMime(result.MimeType), result.Audio)
			if err != nil {
				return "", err
			}
			return jsonResult(map[string]any{
				"audio_path": path,
				"mime_type":  result.MimeType,
				"voice_id":   voiceID,
			})
		},
	}
}

// NewTranslateTextTool translates text between languages.
func NewTranslateTextTool(translator translate.Translator) tools.Tool {
	return tools.Tool{
		Name:        ToolTranslateText,
		Description: "Translate text into a target language.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":            map[string]any{"type": "string"},
				"target_language": map[string]any{"type": "string"},
				"source_language": map[string]any{"type": "string"},
			},
			"required": []string{"text", "target_language"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			text, err := requiredString(args, "text")
			if err != nil {
				return "", err
			}
			target, err := requiredString(args, "target_language")
			if err != nil {
				return "", err
			}
			result, err := translator.Translate(ctx, translate.Request{
				Text:       text,
				TargetLang: target,
				SourceLang: optionalString(args, "source_language"),
			})
			if err != nil {
				return "", err
			}
			return jsonResult(map[string]any{
				"translation":     result.Text,
				"source_language": result.DetectedSource,
				"target_language": target,
			})
		},
	}
}

// NewTranslateAndSpeakTool translates text, then speaks the translation.
// When a deliverer is wired and deliver_to is given, the rendered audio is
// also played over an outbound call.
func NewTranslateAndSpeakTool(translator translate.Translator, synth tts.Synthesizer, store *artifacts.Store, deliverer Deliverer) tools.Tool {
	return tools.Tool{
		Name:        ToolTranslateAndSpeak,
		Description: "Translate text into a target language and synthesize the translation as audio.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":            map[string]any{"type": "string"},
				"target_language": map[string]any{"type": "string"},
				"voice_id":        map[string]any{"type": "string"},
				"deliver_to":      map[string]any{"type": "string"},
			},
			"required": []string{"text", "target_language"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			text, err := requiredString(args, "text")
			if err != nil {
				return "", err
			}
			target, err := requiredString(args, "target_language")
			if err != nil {
				return "", err
			}
			translated, err := translator.Translate(ctx, translate.Request{Text: text, TargetLang: target})
			if err != nil {
				return "", err
			}
			result, err := synth.Synthesize(ctx, tts.SpeakRequest{
				Text:    translated.Text,
				VoiceID: optionalString(args, "voice_id"),
			})
			if err != nil {
				return "", err
			}
			path, err := store.Put(extForMime(result.MimeType), result.Audio)
			if err != nil {
				return "", err
			}
			fields := map[string]any{
				"translation":     translated.Text,
				"source_language": translated.DetectedSource,
				"target_language": target,
				"audio_path":      path,
				"mime_type":       result.MimeType,
			}
			if to := optionalString(args, "deliver_to"); to != "" {
				if deliverer == nil {
					return "", errorsx.Wrap(fmt.Errorf("delivery requested but not configured"), errorsx.ReasonDeliveryDial)
				}
				callSID, err := deliverer.Deliver(ctx, to, path)
				if err != nil {
					return "", err
				}
				fields["call_sid"] = callSID
			}
			return jsonResult(fields)
		},
	}
}

// NewCreativeAudioMixTool mixes audio files according to a creative brief.
func NewCreativeAudioMixTool(mixer mix.Mixer, store *artifacts.Store) tools.Tool {
	return tools.Tool{
		Name:        ToolCreativeAudioMix,
		Description: "Combine audio files into one creative mix following a free-form brief.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt": map[string]any{"type": "string"},
				"source_paths": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []string{"prompt", "source_paths"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			prompt, err := requiredString(args, "prompt")
			if err != nil {
				return "", err
			}
			paths, err := requiredStringSlice(args, "source_paths")
			if err != nil {
				return "", err
			}
			sources := make([]mix.Source, 0, len(paths))
			for _, p := range paths {
				data, err := os.ReadFile(p)
				if err != nil {
					return "", errorsx.Wrap(err, errorsx.ReasonBadArgs)
				}
				sources = append(sources, mix.Source{Name: p, Audio: data})
			}
			result, err := mixer.Mix(ctx, mix.Request{Prompt: prompt, Sources: sources})
			if err != nil {
				return "", err
			}
			path, err := store.Put(extForMime(result.MimeType), result.Audio)
			if err != nil {
				return "", err
			}
			return jsonResult(map[string]any{
				"audio_path": path,
				"mime_type":  result.MimeType,
				"plan":       result.Plan,
			})
		},
	}
}

func extForMime(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return "mp3"
	case "audio/wav":
		return "wav"
	case "audio/basic":
		return "ulaw"
	default:
		return "bin"
	}
}
