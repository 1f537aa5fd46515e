package audiokit

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Tools         ToolsConfig         `mapstructure:"tools"`
	Delivery      VendorConfig        `mapstructure:"delivery"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	STT       VendorConfig `mapstructure:"stt"`
	TTS       VendorConfig `mapstructure:"tts"`
	Translate VendorConfig `mapstructure:"translate"`
	Mix       VendorConfig `mapstructure:"mix"`
}

type ToolsConfig struct {
	Concurrency     int  `mapstructure:"concurrency"`
	TimeoutMS       int  `mapstructure:"timeout_ms"`
	Retries         int  `mapstructure:"retries"`
	RetryBackoffMS  int  `mapstructure:"retry_backoff_ms"`
	SerializeByTool bool `mapstructure:"serialize_by_tool"`
}

type ObservabilityConfig struct {
	ArtifactsDir string `mapstructure:"artifacts_dir"`
	MetricsPath  string `mapstructure:"metrics_path"`
	// MetricsSampleRate keeps that fraction of events, 1.0 keeps all.
	MetricsSampleRate float64 `mapstructure:"metrics_sample_rate"`
	RetentionDays     int     `mapstructure:"retention_days"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("tools.concurrency", 4)
	v.SetDefault("tools.timeout_ms", 60000)
	v.SetDefault("tools.retries", 1)
	v.SetDefault("tools.retry_backoff_ms", 200)
	v.SetDefault("tools.serialize_by_tool", false)
	v.SetDefault("observability.artifacts_dir", "artifacts")
	v.SetDefault("observability.metrics_path", "")
	v.SetDefault("observability.metrics_sample_rate", 1.0)
	v.SetDefault("observability.retention_days", 0)
	v.SetDefault("privacy.redact_pii", true)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vendors.STT.Provider) == "" {
		return fmt.Errorf("vendors.stt.provider is required")
	}
	if strings.TrimSpace(c.Vendors.TTS.Provider) == "" {
		return fmt.Errorf("vendors.tts.provider is required")
	}
	if strings.TrimSpace(c.Vendors.Translate.Provider) == "" {
		return fmt.Errorf("vendors.translate.provider is required")
	}
	if strings.TrimSpace(c.Vendors.Mix.Provider) == "" {
		return fmt.Errorf("vendors.mix.provider is required")
	}
	return nil
}

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Vendors.STT.Settings = expandSettings(cfg.Vendors.STT.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.Translate.Settings = expandSettings(cfg.Vendors.Translate.Settings)
	cfg.Vendors.Mix.Settings = expandSettings(cfg.Vendors.Mix.Settings)
	cfg.Delivery.Settings = expandSettings(cfg.Delivery.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = expandAny(v)
		}
		return out
	default:
		return v
	}
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	}
}
