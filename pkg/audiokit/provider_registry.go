package audiokit

import (
	"fmt"
	"strings"
	"time"

	"github.com/aviv90/audiokit/pkg/adapters/mix"
	"github.com/aviv90/audiokit/pkg/adapters/stt"
	"github.com/aviv90/audiokit/pkg/adapters/translate"
	"github.com/aviv90/audiokit/pkg/adapters/tts"
	"github.com/aviv90/audiokit/pkg/audiotools"
	"github.com/aviv90/audiokit/pkg/configutil"
	"github.com/aviv90/audiokit/pkg/delivery/twilio"
	"github.com/aviv90/audiokit/pkg/llm"
	"github.com/aviv90/audiokit/pkg/providers/deepgram"
	"github.com/aviv90/audiokit/pkg/providers/elevenlabs"
	"github.com/aviv90/audiokit/pkg/providers/mock"
	"github.com/aviv90/audiokit/pkg/providers/openai"
	"github.com/aviv90/audiokit/pkg/resilience"
	"github.com/aviv90/audiokit/pkg/studio"
)

type STTFactory func(cfg VendorConfig) (stt.Transcriber, error)
type TTSFactory func(cfg VendorConfig) (tts.Synthesizer, error)
type TranslateFactory func(cfg VendorConfig) (translate.Translator, error)
type MixFactory func(cfg VendorConfig) (mix.Mixer, error)
type DeliveryFactory func(cfg VendorConfig) (audiotools.Deliverer, error)

type ProviderRegistry struct {
	stt       map[string]STTFactory
	tts       map[string]TTSFactory
	translate map[string]TranslateFactory
	mix       map[string]MixFactory
	delivery  map[string]DeliveryFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		stt:       make(map[string]STTFactory),
		tts:       make(map[string]TTSFactory),
		translate: make(map[string]TranslateFactory),
		mix:       make(map[string]MixFactory),
		delivery:  make(map[string]DeliveryFactory),
	}
}

// DefaultProviderRegistry returns a registry with the built-in vendors
// registered under their canonical names.
func DefaultProviderRegistry() *ProviderRegistry {
	r := NewProviderRegistry()

	r.RegisterSTT("deepgram", func(cfg VendorConfig) (stt.Transcriber, error) {
		if err := validateSettings("vendors.stt.settings", cfg.Settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model", "language", "detect_language", "smart_format", "punctuate"},
		}); err != nil {
			return nil, err
		}
		var settings deepgram.Config
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return deepgram.New(settings)
	})
	r.RegisterSTT("mock", func(cfg VendorConfig) (stt.Transcriber, error) {
		var settings mock.STTConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewTranscriber(settings), nil
	})

	r.RegisterTTS("elevenlabs", func(cfg VendorConfig) (tts.Synthesizer, error) {
		if err := validateSettings("vendors.tts.settings", cfg.Settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"voice_id", "model_id", "output_format", "base_url", "streaming"},
		}); err != nil {
			return nil, err
		}
		var settings elevenlabs.Config
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return elevenlabs.New(settings)
	})
	r.RegisterTTS("mock", func(cfg VendorConfig) (tts.Synthesizer, error) {
		var settings mock.TTSConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewSynthesizer(settings), nil
	})

	r.RegisterTranslate("openai", func(cfg VendorConfig) (translate.Translator, error) {
		adapter, err := openAIAdapter(cfg)
		if err != nil {
			return nil, err
		}
		return openai.NewTranslator(adapter), nil
	})
	r.RegisterTranslate("mock", func(cfg VendorConfig) (translate.Translator, error) {
		var settings mock.TranslateConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewTranslator(settings), nil
	})

	r.RegisterMix("openai", func(cfg VendorConfig) (mix.Mixer, error) {
		adapter, err := openAIAdapter(cfg)
		if err != nil {
			return nil, err
		}
		return studio.NewMixer(adapter), nil
	})
	r.RegisterMix("mock", func(cfg VendorConfig) (mix.Mixer, error) {
		var settings mock.MixConfig
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewMixer(settings), nil
	})

	r.RegisterDelivery("twilio", func(cfg VendorConfig) (audiotools.Deliverer, error) {
		if err := validateSettings("delivery.settings", cfg.Settings, configutil.Schema{
			Required: []string{"account_sid", "auth_token", "from_number", "public_url"},
			Optional: []string{"audio_path"},
		}); err != nil {
			return nil, err
		}
		var settings twilio.Config
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return twilio.NewSpeaker(settings)
	})

	return r
}

func (r *ProviderRegistry) RegisterSTT(name string, factory STTFactory) {
	r.stt[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) {
	r.tts[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterTranslate(name string, factory TranslateFactory) {
	r.translate[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterMix(name string, factory MixFactory) {
	r.mix[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterDelivery(name string, factory DeliveryFactory) {
	r.delivery[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) BuildSTT(cfg VendorConfig) (stt.Transcriber, error) {
	fn := r.stt[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildTTS(cfg VendorConfig) (tts.Synthesizer, error) {
	fn := r.tts[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildTranslate(cfg VendorConfig) (translate.Translator, error) {
	fn := r.translate[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("translate provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildMix(cfg VendorConfig) (mix.Mixer, error) {
	fn := r.mix[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("mix provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildDelivery(cfg VendorConfig) (audiotools.Deliverer, error) {
	fn := r.delivery[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("delivery provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

type openAISettings struct {
	APIKey            string `mapstructure:"api_key"`
	Model             string `mapstructure:"model"`
	BaseURL           string `mapstructure:"base_url"`
	UseCircuitBreaker *bool  `mapstructure:"use_circuit_breaker"`
	CircuitThreshold  int    `mapstructure:"circuit_threshold"`
	CircuitCooldownMs int    `mapstructure:"circuit_cooldown_ms"`
}

func validateSettings(path string, input map[string]any, schema configutil.Schema) error {
	if err := configutil.ValidateSettings(input, schema); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func openAIAdapter(cfg VendorConfig) (llm.Adapter, error) {
	if err := validateSettings("settings", cfg.Settings, configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"model", "base_url", "use_circuit_breaker", "circuit_threshold", "circuit_cooldown_ms"},
	}); err != nil {
		return nil, err
	}
	var settings openAISettings
	if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
		return nil, err
	}
	if strings.TrimSpace(settings.APIKey) == "" {
		return nil, fmt.Errorf("openai api_key is required")
	}
	adapter := openai.NewAdapter(settings.APIKey, settings.Model)
	if settings.BaseURL != "" {
		adapter.BaseURL = settings.BaseURL
	}
	if !configutil.BoolValue(settings.UseCircuitBreaker, true) {
		return adapter, nil
	}
	threshold := settings.CircuitThreshold
	if threshold == 0 {
		threshold = 3
	}
	cooldown := settings.CircuitCooldownMs
	if cooldown == 0 {
		cooldown = 30000
	}
	breaker := resilience.NewCircuitBreaker(threshold, time.Duration(cooldown)*time.Millisecond)
	return llm.NewCircuitBreakerAdapter(adapter, breaker), nil
}
