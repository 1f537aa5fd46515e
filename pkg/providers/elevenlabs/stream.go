package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/resilience"
	"github.com/gorilla/websocket"
)

// synthesizeStream renders text over the stream-input websocket and collects
// the audio chunks into one payload. A single request sends the text followed
// by an end-of-stream marker, then reads until the final chunk.
func (s *Synthesizer) synthesizeStream(ctx context.Context, text, voice, format string) ([]byte, error) {
	u := s.buildStreamURL(voice, format)

	slog.Debug("connecting to ElevenLabs",
		slog.String("voice", voice),
		slog.String("output_format", format))

	dialer := websocket.Dialer{Proxy: http.ProxyFromEnvironment}
	conn, resp, err := dialer.DialContext(ctx, u, http.Header{
		"xi-api-key": []string{s.cfg.APIKey},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return nil, errorsx.Wrap(resilience.RateLimitError{Provider: "elevenlabs", Message: resp.Status}, errorsx.ReasonSynthesizeRateLimit)
		}
		return nil, errorsx.Wrap(err, errorsx.ReasonSynthesize)
	}
	defer func() {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	init := map[string]any{
		"text": " ",
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.8,
		},
		"generation_config": map[string]any{
			"chunk_length_schedule": []int{120, 160, 250, 290},
		},
	}
	if err := writeJSON(conn, init); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonSynthesize)
	}
	if !strings.HasSuffix(text, " ") {
		text += " "
	}
	if err := writeJSON(conn, map[string]any{"text": text, "try_trigger_generation": true}); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonSynthesize)
	}
	// empty text closes the input stream
	if err := writeJSON(conn, map[string]any{"text": ""}); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonSynthesize)
	}

	var out bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && out.Len() > 0 {
				return out.Bytes(), nil
			}
			return nil, errorsx.Wrap(err, errorsx.ReasonSynthesize)
		}
		chunk, final, err := parseStreamChunk(data)
		if err != nil {
			slog.Warn("tts websocket raw data", "data", string(data))
			continue
		}
		out.Write(chunk)
		if final {
			break
		}
	}
	if out.Len() == 0 {
		return nil, errorsx.Wrap(errors.New("no audio received"), errorsx.ReasonSynthesize)
	}
	return out.Bytes(), nil
}

func (s *Synthesizer) buildStreamURL(voice, format string) string {
	base := strings.Replace(s.cfg.BaseURL, "http", "ws", 1)
	q := url.Values{}
	if s.cfg.ModelID != "" {
		q.Set("model_id", s.cfg.ModelID)
	}
	if format != "" {
		q.Set("output_format", format)
	}
	q.Set("optimize_streaming_latency", "4")
	return base + "/v1/text-to-speech/" + voice + "/stream-input?" + q.Encode()
}

// parseStreamChunk extracts audio bytes from one websocket message. The
// audio key has varied across API revisions.
func parseStreamChunk(data []byte) (chunk []byte, final bool, err error) {
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, false, err
	}
	final, _ = msg["isFinal"].(bool)
	audio, ok := msg["audio"].(string)
	if !ok {
		if a, ok := msg["audio_base_64"].(string); ok {
			audio = a
		} else if a, ok := msg["audio_base64"].(string); ok {
			audio = a
		} else {
			return nil, final, nil
		}
	}
	raw, err := base64.StdEncoding.DecodeString(audio)
	if err != nil {
		return nil, final, err
	}
	return raw, final, nil
}

func writeJSON(conn *websocket.Conn, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}
