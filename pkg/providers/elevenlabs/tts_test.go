package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aviv90/audiokit/pkg/adapters/tts"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/resilience"
)

func newTestSynthesizer(t *testing.T, baseURL string) *Synthesizer {
	t.Helper()
	s, err := New(Config{APIKey: "key", VoiceID: "voice-1", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.retryPolicy = resilience.NewRetryPolicy(1, 1)
	return s
}

func TestSynthesizeREST(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	s := newTestSynthesizer(t, srv.URL)
	res, err := s.Synthesize(context.Background(), tts.SpeakRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(res.Audio) != "mp3-bytes" {
		t.Fatalf("unexpected audio: %q", res.Audio)
	}
	if res.MimeType != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %s", res.MimeType)
	}
	if res.VoiceID != "voice-1" {
		t.Fatalf("expected default voice, got %s", res.VoiceID)
	}
	if gotPath != "/v1/text-to-speech/voice-1" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "key" {
		t.Fatalf("expected api key header")
	}
	if gotBody["text"] != "hello" {
		t.Fatalf("expected text in body, got %v", gotBody)
	}
}

func TestSynthesizeVoiceOverride(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	s := newTestSynthesizer(t, srv.URL)
	res, err := s.Synthesize(context.Background(), tts.SpeakRequest{Text: "hi", VoiceID: "cloned-9"})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if gotPath != "/v1/text-to-speech/cloned-9" {
		t.Fatalf("expected override voice in path, got %s", gotPath)
	}
	if res.VoiceID != "cloned-9" {
		t.Fatalf("expected override voice in result, got %s", res.VoiceID)
	}
}

func TestSynthesizeRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := newTestSynthesizer(t, srv.URL)
	_, err := s.Synthesize(context.Background(), tts.SpeakRequest{Text: "hi"})
	if !resilience.IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if !errorsx.HasReason(err, errorsx.ReasonSynthesizeRateLimit) {
		t.Fatalf("expected rate limit reason, got %v", err)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	s := newTestSynthesizer(t, "http://unused")
	_, err := s.Synthesize(context.Background(), tts.SpeakRequest{Text: "  "})
	if !errorsx.HasReason(err, errorsx.ReasonBadArgs) {
		t.Fatalf("expected bad args reason, got %v", err)
	}
}

func TestCloneVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voices/add" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("name"); got != "narrator" {
			t.Errorf("expected voice name, got %q", got)
		}
		if len(r.MultipartForm.File["files"]) != 2 {
			t.Errorf("expected 2 samples, got %d", len(r.MultipartForm.File["files"]))
		}
		json.NewEncoder(w).Encode(map[string]string{"voice_id": "v-42"})
	}))
	defer srv.Close()

	s := newTestSynthesizer(t, srv.URL)
	id, err := s.CloneVoice(context.Background(), tts.CloneRequest{
		VoiceName: "narrator",
		Samples: []tts.Sample{
			{Name: "a.mp3", Audio: strings.NewReader("aaa")},
			{Name: "b.mp3", Audio: strings.NewReader("bbb")},
		},
	})
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if id != "v-42" {
		t.Fatalf("expected voice id v-42, got %s", id)
	}
}

func TestCloneVoiceRequiresSamples(t *testing.T) {
	s := newTestSynthesizer(t, "http://unused")
	_, err := s.CloneVoice(context.Background(), tts.CloneRequest{VoiceName: "x"})
	if !errorsx.HasReason(err, errorsx.ReasonBadArgs) {
		t.Fatalf("expected bad args reason, got %v", err)
	}
}

func TestBuildStreamURL(t *testing.T) {
	s := newTestSynthesizer(t, "https://api.elevenlabs.io")
	u := s.buildStreamURL("voice-1", "ulaw_8000")
	if !strings.HasPrefix(u, "wss://api.elevenlabs.io/v1/text-to-speech/voice-1/stream-input?") {
		t.Fatalf("unexpected url: %s", u)
	}
	if !strings.Contains(u, "output_format=ulaw_8000") {
		t.Fatalf("expected output format in url: %s", u)
	}
}

func TestParseStreamChunk(t *testing.T) {
	chunk, final, err := parseStreamChunk([]byte(`{"audio":"aGk=","isFinal":true}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if string(chunk) != "hi" || !final {
		t.Fatalf("unexpected parse result: %q final=%v", chunk, final)
	}

	chunk, final, err = parseStreamChunk([]byte(`{"alignment":{}}`))
	if err != nil || chunk != nil || final {
		t.Fatalf("expected empty non-final chunk, got %q %v %v", chunk, final, err)
	}
}
