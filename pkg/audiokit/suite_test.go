package audiokit

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func mockConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Vendors: VendorsConfig{
			STT:       VendorConfig{Provider: "mock", Settings: map[string]any{"transcript": "hi there", "language": "en", "confidence": 0.9}},
			TTS:       VendorConfig{Provider: "mock"},
			Translate: VendorConfig{Provider: "mock", Settings: map[string]any{"prefix": "[es] ", "source": "en"}},
			Mix:       VendorConfig{Provider: "mock"},
		},
		Observability: ObservabilityConfig{ArtifactsDir: filepath.Join(t.TempDir(), "artifacts")},
		LogLevel:      "error",
		LogFormat:     "text",
	}
}

func TestNewSuiteComposesTools(t *testing.T) {
	suite, err := NewSuite(mockConfig(t), nil)
	if err != nil {
		t.Fatalf("NewSuite: %v", err)
	}
	defer suite.Close()

	want := []string{
		"transcribe_audio",
		"text_to_speech",
		"voice_clone_and_speak",
		"translate_text",
		"translate_and_speak",
		"creative_audio_mix",
	}
	got := suite.Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if _, ok := suite.Tool("translate_text"); !ok {
		t.Fatal("translate_text not found")
	}
}

func TestSuiteExecuteTranslate(t *testing.T) {
	suite, err := NewSuite(mockConfig(t), nil)
	if err != nil {
		t.Fatalf("NewSuite: %v", err)
	}
	defer suite.Close()

	out, err := suite.Execute(context.Background(), "translate_text", map[string]any{
		"text":            "hello",
		"target_language": "es",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("result not json: %v", err)
	}
	text, _ := result["translation"].(string)
	if !strings.Contains(text, "hello") {
		t.Fatalf("translation = %q", text)
	}
}

func TestNewSuiteUnknownProviderFails(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Vendors.TTS.Provider = "nope"
	if _, err := NewSuite(cfg, nil); err == nil {
		t.Fatal("expected error for unknown tts provider")
	} else if !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewSuiteDeliveryProvider(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Delivery = VendorConfig{Provider: "twilio", Settings: map[string]any{
		"account_sid": "AC1",
		"auth_token":  "t",
		"from_number": "+15550001111",
		"public_url":  "https://ex.com",
	}}
	suite, err := NewSuite(cfg, nil)
	if err != nil {
		t.Fatalf("NewSuite: %v", err)
	}
	defer suite.Close()
	if _, ok := suite.Tool("translate_and_speak"); !ok {
		t.Fatal("translate_and_speak not found")
	}
}

func TestNewSuiteMetricsFile(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Observability.MetricsPath = filepath.Join(t.TempDir(), "metrics.jsonl")
	suite, err := NewSuite(cfg, nil)
	if err != nil {
		t.Fatalf("NewSuite: %v", err)
	}
	if _, err := suite.Execute(context.Background(), "translate_text", map[string]any{
		"text":            "hola",
		"target_language": "en",
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := suite.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
