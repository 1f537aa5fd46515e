package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aviv90/audiokit/pkg/adapters/translate"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/llm"
	"github.com/aviv90/audiokit/pkg/logging"
	"github.com/aviv90/audiokit/pkg/redact"
)

const translateSystemPrompt = `You are a translation engine. Reply with a single JSON object:
{"translation": "<translated text>", "source_language": "<ISO 639-1 code of the input>"}
Preserve tone and formatting. Do not add commentary.`

// Translator implements translation on top of any chat LLM adapter.
type Translator struct {
	adapter llm.Adapter
	logger  *slog.Logger
}

func NewTranslator(adapter llm.Adapter) *Translator {
	return &Translator{
		adapter: adapter,
		logger:  logging.NewComponentLogger(slog.Default(), "translator"),
	}
}

func (t *Translator) Name() string { return t.adapter.Name() + "_translator" }

func (t *Translator) Translate(ctx context.Context, req translate.Request) (translate.Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return translate.Result{}, errorsx.Wrap(errors.New("missing text"), errorsx.ReasonBadArgs)
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return translate.Result{}, errorsx.Wrap(errors.New("missing target language"), errorsx.ReasonBadArgs)
	}

	prompt := fmt.Sprintf("Target language: %s.", req.TargetLang)
	if req.SourceLang != "" {
		prompt += fmt.Sprintf(" Source language: %s.", req.SourceLang)
	}
	prompt += "\n\nText:\n" + req.Text

	resp, err := t.adapter.Generate(ctx, llm.Request{
		System:   translateSystemPrompt,
		Messages: []llm.Message{{Role: "user", Content: prompt}},
		JSONOnly: true,
	})
	if err != nil {
		return translate.Result{}, errorsx.Wrap(err, errorsx.ReasonTranslate)
	}

	var parsed struct {
		Translation    string `json:"translation"`
		SourceLanguage string `json:"source_language"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &parsed); err != nil {
		return translate.Result{}, errorsx.Wrap(fmt.Errorf("unparseable translation reply: %w", err), errorsx.ReasonTranslate)
	}
	if parsed.Translation == "" {
		return translate.Result{}, errorsx.Wrap(errors.New("empty translation"), errorsx.ReasonTranslate)
	}
	t.logger.Debug("translation complete",
		slog.String("target", req.TargetLang),
		slog.String("detected_source", parsed.SourceLanguage),
		slog.String("text", redact.Text(parsed.Translation)))
	return translate.Result{Text: parsed.Translation, DetectedSource: parsed.SourceLanguage}, nil
}

// extractJSON tolerates models that wrap the object in code fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return s
}

var _ translate.Translator = (*Translator)(nil)
