package deepgram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aviv90/audiokit/pkg/adapters/stt"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/logging"
	"github.com/aviv90/audiokit/pkg/resilience"

	restinterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
	listenapi "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
)

type Config struct {
	APIKey   string
	Model    string
	Language string
	// DetectLanguage asks Deepgram to identify the spoken language when no
	// hint is provided.
	DetectLanguage bool
	SmartFormat    bool
	Punctuate      bool
}

type transcriptionAPI interface {
	FromStream(ctx context.Context, source io.Reader, options *interfaces.PreRecordedTranscriptionOptions) (*restinterfaces.PreRecordedResponse, error)
}

// Transcriber transcribes prerecorded audio via the Deepgram REST API.
type Transcriber struct {
	cfg         Config
	api         transcriptionAPI
	logger      *slog.Logger
	retryPolicy resilience.RetryPolicy
}

func New(cfg Config) (*Transcriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing deepgram api key")
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	rest := client.NewREST(cfg.APIKey, &interfaces.ClientOptions{})
	return &Transcriber{
		cfg:         cfg,
		api:         listenapi.New(rest),
		logger:      logging.NewComponentLogger(slog.Default(), "deepgram_stt"),
		retryPolicy: resilience.NewRetryPolicy(2, 300*time.Millisecond),
	}, nil
}

func (t *Transcriber) Name() string { return "deepgram_prerecorded" }

func (t *Transcriber) Transcribe(ctx context.Context, req stt.Request) (stt.Result, error) {
	if req.Audio == nil {
		return stt.Result{}, errorsx.Wrap(errors.New("missing audio"), errorsx.ReasonBadArgs)
	}
	opts := t.options(req)

	started := time.Now()
	var resp *restinterfaces.PreRecordedResponse
	err := t.retryPolicy.DoCtx(ctx, func() error {
		var callErr error
		resp, callErr = t.api.FromStream(ctx, req.Audio, opts)
		return callErr
	})
	if err != nil {
		t.logger.Error("transcription failed",
			slog.String("model", opts.Model),
			slog.String("error", err.Error()))
		return stt.Result{}, errorsx.Wrap(err, errorsx.ReasonTranscribe)
	}

	result, err := mapResponse(resp)
	if err != nil {
		return stt.Result{}, errorsx.Wrap(err, errorsx.ReasonTranscribe)
	}
	t.logger.Debug("transcription complete",
		slog.String("model", opts.Model),
		slog.String("language", result.Language),
		slog.Float64("confidence", result.Confidence),
		slog.Duration("elapsed", time.Since(started)))
	return result, nil
}

func (t *Transcriber) options(req stt.Request) *interfaces.PreRecordedTranscriptionOptions {
	opts := &interfaces.PreRecordedTranscriptionOptions{
		Model:       t.cfg.Model,
		SmartFormat: t.cfg.SmartFormat,
		Punctuate:   t.cfg.Punctuate,
	}
	lang := req.Language
	if lang == "" {
		lang = t.cfg.Language
	}
	if lang != "" {
		opts.Language = lang
	} else if t.cfg.DetectLanguage {
		opts.DetectLanguage = true
	}
	return opts
}

func mapResponse(resp *restinterfaces.PreRecordedResponse) (stt.Result, error) {
	if resp == nil || resp.Results == nil || len(resp.Results.Channels) == 0 {
		return stt.Result{}, errors.New("empty transcription response")
	}
	channel := resp.Results.Channels[0]
	if len(channel.Alternatives) == 0 {
		return stt.Result{}, errors.New("no transcription alternatives")
	}
	alt := channel.Alternatives[0]
	result := stt.Result{
		Transcript: alt.Transcript,
		Confidence: alt.Confidence,
		Language:   channel.DetectedLanguage,
	}
	if resp.Metadata != nil {
		result.DurationSec = resp.Metadata.Duration
	}
	return result, nil
}
