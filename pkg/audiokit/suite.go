// Package audiokit wires configured vendors into the audio tool suite.
package audiokit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aviv90/audiokit/pkg/adapters/tts"
	"github.com/aviv90/audiokit/pkg/artifacts"
	"github.com/aviv90/audiokit/pkg/audiotools"
	"github.com/aviv90/audiokit/pkg/logging"
	"github.com/aviv90/audiokit/pkg/metrics"
	"github.com/aviv90/audiokit/pkg/redact"
	"github.com/aviv90/audiokit/pkg/tools"
)

// Suite owns the composed tool registry plus the executor and observability
// plumbing built from one Config. Construction is fail-fast: any vendor that
// cannot be built aborts the whole suite.
type Suite struct {
	cfg      Config
	registry *tools.Registry
	executor *Executor
	store    *artifacts.Store
	observer metrics.Observer
	logger   *slog.Logger

	metricsFile *os.File
	async       *metrics.AsyncObserver
}

func NewSuite(cfg Config, providers *ProviderRegistry) (*Suite, error) {
	if providers == nil {
		providers = DefaultProviderRegistry()
	}
	logging.SetDefault(cfg.LogLevel, cfg.LogFormat)
	redact.SetEnabled(cfg.Privacy.RedactPII)
	logger := logging.NewComponentLogger(slog.Default(), "suite")

	s := &Suite{cfg: cfg, logger: logger, observer: metrics.NoopObserver{}}

	if cfg.Observability.MetricsPath != "" {
		f, err := os.OpenFile(cfg.Observability.MetricsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open metrics file: %w", err)
		}
		s.metricsFile = f
		var sink metrics.Observer = metrics.NewJSONLObserver(f)
		if rate := cfg.Observability.MetricsSampleRate; rate > 0 && rate < 1 {
			sink = metrics.NewSamplingObserver(sink, rate)
		}
		s.async = metrics.NewAsyncObserver(sink, 256)
		s.observer = s.async
	}

	dir := cfg.Observability.ArtifactsDir
	if dir == "" {
		dir = "artifacts"
	}
	store, err := artifacts.NewStore(dir)
	if err != nil {
		s.closeObservability()
		return nil, fmt.Errorf("artifact store: %w", err)
	}
	s.store = store

	if days := cfg.Observability.RetentionDays; days > 0 {
		if n, err := store.Purge(time.Duration(days) * 24 * time.Hour); err != nil {
			logger.Warn("artifact purge failed", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.Info("purged expired artifacts", slog.Int("count", n))
		}
	}

	deps, err := s.buildDeps(providers)
	if err != nil {
		s.closeObservability()
		return nil, err
	}
	registry, err := audiotools.Compose(deps)
	if err != nil {
		s.closeObservability()
		return nil, err
	}
	s.registry = registry
	s.executor = NewExecutor(registry, ExecutorOptions{
		Concurrency:     cfg.Tools.Concurrency,
		Timeout:         time.Duration(cfg.Tools.TimeoutMS) * time.Millisecond,
		Retries:         cfg.Tools.Retries,
		RetryBackoff:    time.Duration(cfg.Tools.RetryBackoffMS) * time.Millisecond,
		SerializeByTool: cfg.Tools.SerializeByTool,
	}, s.observer)

	logger.Info("suite ready",
		slog.String("stt", cfg.Vendors.STT.Provider),
		slog.String("tts", cfg.Vendors.TTS.Provider),
		slog.String("translate", cfg.Vendors.Translate.Provider),
		slog.String("mix", cfg.Vendors.Mix.Provider),
		slog.Int("tools", registry.Len()))
	return s, nil
}

func (s *Suite) buildDeps(providers *ProviderRegistry) (audiotools.Deps, error) {
	transcriber, err := providers.BuildSTT(s.cfg.Vendors.STT)
	if err != nil {
		return audiotools.Deps{}, fmt.Errorf("build stt: %w", err)
	}
	synthesizer, err := providers.BuildTTS(s.cfg.Vendors.TTS)
	if err != nil {
		return audiotools.Deps{}, fmt.Errorf("build tts: %w", err)
	}
	cloner, ok := synthesizer.(tts.VoiceCloner)
	if !ok {
		return audiotools.Deps{}, fmt.Errorf("tts provider %s does not support voice cloning", s.cfg.Vendors.TTS.Provider)
	}
	translator, err := providers.BuildTranslate(s.cfg.Vendors.Translate)
	if err != nil {
		return audiotools.Deps{}, fmt.Errorf("build translate: %w", err)
	}
	mixer, err := providers.BuildMix(s.cfg.Vendors.Mix)
	if err != nil {
		return audiotools.Deps{}, fmt.Errorf("build mix: %w", err)
	}
	deps := audiotools.Deps{
		Transcriber: transcriber,
		Synthesizer: synthesizer,
		Cloner:      cloner,
		Translator:  translator,
		Mixer:       mixer,
		Store:       s.store,
	}
	if s.cfg.Delivery.Provider != "" {
		deliverer, err := providers.BuildDelivery(s.cfg.Delivery)
		if err != nil {
			return audiotools.Deps{}, fmt.Errorf("build delivery: %w", err)
		}
		deps.Deliverer = deliverer
	}
	return deps, nil
}

// Registry exposes the composed tool catalog.
func (s *Suite) Registry() *tools.Registry { return s.registry }

// Tool looks up a single tool by name.
func (s *Suite) Tool(name string) (tools.Tool, bool) { return s.registry.Get(name) }

// Names lists the tool names in registration order.
func (s *Suite) Names() []string { return s.registry.Names() }

// Handle dispatches one tool call straight through the registry, without the
// executor's timeout and retry policy.
func (s *Suite) Handle(ctx context.Context, name string, args map[string]any) (string, error) {
	return s.registry.Handle(ctx, name, args)
}

// Execute runs one tool through the executor's timeout and retry policy.
func (s *Suite) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	return s.executor.Execute(ctx, name, args)
}

// Store exposes the artifact store for serving rendered audio.
func (s *Suite) Store() *artifacts.Store { return s.store }

// Close flushes and releases observability resources.
func (s *Suite) Close() error {
	s.closeObservability()
	return nil
}

func (s *Suite) closeObservability() {
	if s.async != nil {
		s.async.Close()
		s.async = nil
	}
	if s.metricsFile != nil {
		_ = s.metricsFile.Close()
		s.metricsFile = nil
	}
}
