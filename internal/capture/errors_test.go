package capture

import (
	"errors"
	"testing"
)

func TestCaptureErrorUnwrapsToSentinel(t *testing.T) {
	err := NewCaptureError("select_source", KindPermanent, ErrSourceNotFound)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("errors.Is should see through CaptureError to the wrapped sentinel")
	}
}

func TestCaptureErrorMessageIncludesOp(t *testing.T) {
	err := NewCaptureError("capture_frame", KindTemporary, ErrDisplayNotFound)
	if got := err.Error(); got == "" {
		t.Fatalf("Error() should not be empty")
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		KindTemporary:   "temporary",
		KindPermanent:   "permanent",
		KindUnsupported: "unsupported",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("ErrorKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
