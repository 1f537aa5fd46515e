package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aviv90/audiokit/pkg/adapters/tts"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/logging"
	"github.com/aviv90/audiokit/pkg/resilience"
)

type Config struct {
	APIKey       string
	VoiceID      string
	ModelID      string
	OutputFormat string
	BaseURL      string
	// Streaming uses the websocket stream-input endpoint instead of the
	// plain REST one; chunks are still collected into a single result.
	Streaming bool
}

// Synthesizer renders text to audio via the ElevenLabs API.
type Synthesizer struct {
	cfg         Config
	client      *http.Client
	logger      *slog.Logger
	retryPolicy resilience.RetryPolicy
}

func New(cfg Config) (*Synthesizer, error) {
	if cfg.APIKey == "" || cfg.VoiceID == "" {
		return nil, errors.New("missing elevenlabs config")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	return &Synthesizer{
		cfg:         cfg,
		client:      &http.Client{Timeout: 60 * time.Second},
		logger:      logging.NewComponentLogger(slog.Default(), "elevenlabs_tts"),
		retryPolicy: resilience.NewRetryPolicy(2, 300*time.Millisecond),
	}, nil
}

func (s *Synthesizer) Name() string { return "elevenlabs" }

func (s *Synthesizer) Synthesize(ctx context.Context, req tts.SpeakRequest) (tts.SpeakResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return tts.SpeakResult{}, errorsx.Wrap(errors.New("missing text"), errorsx.ReasonBadArgs)
	}
	voice := req.VoiceID
	if voice == "" {
		voice = s.cfg.VoiceID
	}
	format := req.OutputFormat
	if format == "" {
		format = s.cfg.OutputFormat
	}

	if s.cfg.Streaming {
		audio, err := s.synthesizeStream(ctx, req.Text, voice, format)
		if err != nil {
			return tts.SpeakResult{}, err
		}
		return tts.SpeakResult{Audio: audio, MimeType: mimeForFormat(format), VoiceID: voice}, nil
	}

	var audio []byte
	err := s.retryPolicy.DoCtx(ctx, func() error {
		var callErr error
		audio, callErr = s.synthesizeREST(ctx, req.Text, voice, format)
		return callErr
	})
	if err != nil {
		return tts.SpeakResult{}, err
	}
	return tts.SpeakResult{Audio: audio, MimeType: mimeForFormat(format), VoiceID: voice}, nil
}

func (s *Synthesizer) synthesizeREST(ctx context.Context, text, voice, format string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": s.cfg.ModelID,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.8,
		},
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", s.cfg.BaseURL, voice, format)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", s.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonSynthesize)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		s.logger.Error("rate limit exceeded",
			slog.String("voice", voice),
			slog.String("status", resp.Status))
		return nil, errorsx.Wrap(resilience.RateLimitError{Provider: "elevenlabs", Message: resp.Status}, errorsx.ReasonSynthesizeRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, errorsx.Wrap(fmt.Errorf("elevenlabs status %s: %s", resp.Status, strings.TrimSpace(string(payload))), errorsx.ReasonSynthesize)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonSynthesize)
	}
	s.logger.Debug("synthesis complete",
		slog.String("voice", voice),
		slog.Int("size_bytes", len(audio)))
	return audio, nil
}

func mimeForFormat(format string) string {
	switch {
	case strings.HasPrefix(format, "mp3"):
		return "audio/mpeg"
	case strings.HasPrefix(format, "ulaw"):
		return "audio/basic"
	case strings.HasPrefix(format, "pcm"):
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}
