package twilio

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/logging"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type stubCreator struct {
	params *api.CreateCallParams
	sid    string
	err    error
}

func (s *stubCreator) CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error) {
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	return &api.ApiV2010Call{Sid: &s.sid}, nil
}

func newTestSpeaker(creator callCreator) *Speaker {
	return &Speaker{
		cfg: Config{
			AccountSID: "AC123",
			AuthToken:  "token",
			FromNumber: "+15550001111",
			PublicURL:  "example.com",
		}.withDefaults(),
		client: creator,
		logger: logging.NewComponentLogger(slog.Default(), "twilio_delivery"),
	}
}

func TestDeliverPlacesCall(t *testing.T) {
	creator := &stubCreator{sid: "CA42"}
	speaker := newTestSpeaker(creator)

	sid, err := speaker.Deliver(context.Background(), "+15552223333", "/tmp/artifacts/abc.mp3")
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if sid != "CA42" {
		t.Fatalf("sid = %q, want CA42", sid)
	}
	if creator.params == nil {
		t.Fatal("CreateCall not invoked")
	}
	if got := *creator.params.To; got != "+15552223333" {
		t.Fatalf("to = %q", got)
	}
	if got := *creator.params.From; got != "+15550001111" {
		t.Fatalf("from = %q", got)
	}
	twiml := *creator.params.Twiml
	if !strings.Contains(twiml, "https://example.com/audio/abc.mp3") {
		t.Fatalf("twiml missing audio url: %q", twiml)
	}
	if !strings.Contains(twiml, "<Play>") {
		t.Fatalf("twiml missing play verb: %q", twiml)
	}
}

func TestDeliverCreateCallError(t *testing.T) {
	creator := &stubCreator{err: errors.New("twilio down")}
	speaker := newTestSpeaker(creator)

	if _, err := speaker.Deliver(context.Background(), "+15552223333", "a.mp3"); err == nil {
		t.Fatal("expected error")
	} else if !errorsx.HasReason(err, errorsx.ReasonDeliveryDial) {
		t.Fatalf("reason = %v", err)
	}
}

func TestDeliverMissingDestination(t *testing.T) {
	speaker := newTestSpeaker(&stubCreator{sid: "CA1"})
	if _, err := speaker.Deliver(context.Background(), "", "a.mp3"); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestNewSpeakerValidates(t *testing.T) {
	if _, err := NewSpeaker(Config{}); err == nil {
		t.Fatal("expected error for empty config")
	}
	if _, err := NewSpeaker(Config{AccountSID: "AC1", AuthToken: "t", FromNumber: "+1"}); err == nil {
		t.Fatal("expected error for missing public url")
	}
	sp, err := NewSpeaker(Config{AccountSID: "AC1", AuthToken: "t", FromNumber: "+1", PublicURL: "https://ex.com/"})
	if err != nil {
		t.Fatalf("NewSpeaker: %v", err)
	}
	if sp.cfg.AudioPath != "/audio" {
		t.Fatalf("audio path default = %q", sp.cfg.AudioPath)
	}
}

func TestNormalizePublicURL(t *testing.T) {
	cases := map[string]string{
		"https://ex.com/": "ex.com",
		"http://ex.com":   "ex.com",
		"ex.com//":        "ex.com",
		"":                "",
	}
	for in, want := range cases {
		if got := normalizePublicURL(in); got != want {
			t.Fatalf("normalizePublicURL(%q) = %q, want %q", in, got, want)
		}
	}
}
