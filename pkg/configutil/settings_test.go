package configutil

import "testing"

func TestDecodeSettingsNormalizesKeys(t *testing.T) {
	var out struct {
		APIKey     string `mapstructure:"api_key"`
		SampleRate int    `mapstructure:"sample_rate"`
	}
	input := map[string]any{
		"API_KEY":     "sk-1",
		"sample-rate": "8000",
	}
	if err := DecodeSettings(input, &out); err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if out.APIKey != "sk-1" {
		t.Fatalf("api key = %q", out.APIKey)
	}
	if out.SampleRate != 8000 {
		t.Fatalf("sample rate = %d", out.SampleRate)
	}
}

func TestValidateSettings(t *testing.T) {
	schema := Schema{
		Required: []string{"api_key"},
		Optional: []string{"model"},
	}
	if err := ValidateSettings(map[string]any{"api_key": "x", "model": "m"}, schema); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	if err := ValidateSettings(map[string]any{"model": "m"}, schema); err == nil {
		t.Fatal("expected missing api_key error")
	}
	if err := ValidateSettings(map[string]any{"api_key": "x", "extra": 1}, schema); err == nil {
		t.Fatal("expected unknown key error")
	}
	schema.AllowUnknown = true
	if err := ValidateSettings(map[string]any{"api_key": "x", "extra": 1}, schema); err != nil {
		t.Fatalf("AllowUnknown should accept extras: %v", err)
	}
}

func TestValidateSettingsEmptyRequired(t *testing.T) {
	schema := Schema{Required: []string{"api_key"}}
	if err := ValidateSettings(map[string]any{"api_key": "  "}, schema); err == nil {
		t.Fatal("expected error for blank required value")
	}
}
