// Package twilio delivers rendered audio artifacts over outbound phone calls.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/logging"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type Config struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
	// PublicURL is the base under which the artifacts dir is served.
	PublicURL string `mapstructure:"public_url"`
	AudioPath string `mapstructure:"audio_path"`
}

func (c Config) withDefaults() Config {
	if c.AudioPath == "" {
		c.AudioPath = "/audio"
	}
	return c
}

type callCreator interface {
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

// Speaker places an outbound call that plays one rendered artifact.
type Speaker struct {
	cfg    Config
	client callCreator
	logger *slog.Logger
}

func NewSpeaker(cfg Config) (*Speaker, error) {
	cfg = cfg.withDefaults()
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, errors.New("missing twilio credentials")
	}
	if cfg.FromNumber == "" {
		return nil, errors.New("missing twilio from number")
	}
	if cfg.PublicURL == "" {
		return nil, errors.New("missing public url for audio delivery")
	}
	return &Speaker{
		cfg:    cfg,
		logger: logging.NewComponentLogger(slog.Default(), "twilio_delivery"),
	}, nil
}

// Deliver calls the number and plays the artifact. The artifact must be
// reachable under the configured public URL by its file name.
func (s *Speaker) Deliver(ctx context.Context, to, artifactPath string) (string, error) {
	if to == "" {
		return "", errorsx.Wrap(errors.New("missing destination number"), errorsx.ReasonBadArgs)
	}
	client := s.client
	if client == nil {
		rest := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: s.cfg.AccountSID,
			Password: s.cfg.AuthToken,
		})
		client = rest.Api
	}
	audioURL := s.audioURL(artifactPath)
	params := &api.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.FromNumber)
	params.SetTwiml(fmt.Sprintf("<Response><Play>%s</Play></Response>", audioURL))

	resp, err := client.CreateCall(params)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonDeliveryDial)
	}
	if resp == nil || resp.Sid == nil {
		return "", errorsx.Wrap(fmt.Errorf("missing call sid"), errorsx.ReasonDeliveryDial)
	}
	s.logger.Info("delivery call placed",
		slog.String("call_sid", *resp.Sid),
		slog.String("audio_url", audioURL))
	return *resp.Sid, nil
}

func (s *Speaker) audioURL(artifactPath string) string {
	base := "https://" + normalizePublicURL(s.cfg.PublicURL) + s.cfg.AudioPath
	return base + "/" + filepath.Base(artifactPath)
}

func normalizePublicURL(v string) string {
	if v == "" {
		return ""
	}
	v = strings.TrimPrefix(v, "https://")
	v = strings.TrimPrefix(v, "http://")
	for len(v) > 0 && v[len(v)-1] == '/' {
		v = v[:len(v)-1]
	}
	return v
}
