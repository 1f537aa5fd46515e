package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonTranslate)
	if Reason(err) != ReasonTranslate {
		t.Fatalf("expected reason %s, got %s", ReasonTranslate, Reason(err))
	}
	if !HasReason(err, ReasonTranslate) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonSynthesize)
	second := Wrap(first, ReasonTranslate)
	if Reason(second) != ReasonSynthesize {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestReasonNilError(t *testing.T) {
	if Reason(nil) != ReasonUnknown {
		t.Fatalf("expected unknown reason for nil error")
	}
	if Wrap(nil, ReasonCompose) != nil {
		t.Fatalf("expected nil wrap for nil error")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
