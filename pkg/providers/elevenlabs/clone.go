package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aviv90/audiokit/pkg/adapters/tts"
	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/resilience"
)

// CloneVoice uploads reference samples and returns the new voice id.
func (s *Synthesizer) CloneVoice(ctx context.Context, req tts.CloneRequest) (string, error) {
	if strings.TrimSpace(req.VoiceName) == "" {
		return "", errorsx.Wrap(errors.New("missing voice name"), errorsx.ReasonBadArgs)
	}
	if len(req.Samples) == 0 {
		return "", errorsx.Wrap(errors.New("at least one sample required"), errorsx.ReasonBadArgs)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("name", req.VoiceName); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonVoiceClone)
	}
	for i, sample := range req.Samples {
		name := sample.Name
		if name == "" {
			name = fmt.Sprintf("sample_%d", i)
		}
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			return "", errorsx.Wrap(err, errorsx.ReasonVoiceClone)
		}
		if _, err := io.Copy(part, sample.Audio); err != nil {
			return "", errorsx.Wrap(err, errorsx.ReasonVoiceClone)
		}
	}
	if err := writer.Close(); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonVoiceClone)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v1/voices/add", &body)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonVoiceClone)
	}
	httpReq.Header.Set("xi-api-key", s.cfg.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonVoiceClone)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", errorsx.Wrap(resilience.RateLimitError{Provider: "elevenlabs", Message: resp.Status}, errorsx.ReasonSynthesizeRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", errorsx.Wrap(fmt.Errorf("elevenlabs status %s: %s", resp.Status, strings.TrimSpace(string(payload))), errorsx.ReasonVoiceClone)
	}

	var parsed struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonVoiceClone)
	}
	if parsed.VoiceID == "" {
		return "", errorsx.Wrap(errors.New("missing voice_id in response"), errorsx.ReasonVoiceClone)
	}
	s.logger.Info("voice cloned",
		slog.String("voice_name", req.VoiceName),
		slog.String("voice_id", parsed.VoiceID),
		slog.Int("samples", len(req.Samples)))
	return parsed.VoiceID, nil
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
var _ tts.VoiceCloner = (*Synthesizer)(nil)
