package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsKind(t *testing.T) {
	base := New(NotFound, "team %q not found", "platform")
	if !IsKind(base, NotFound) {
		t.Error("expected NotFound kind")
	}
	if IsKind(base, CloneFailure) {
		t.Error("kind must not match a different kind")
	}

	// Kind survives wrapping.
	wrapped := fmt.Errorf("listing repos: %w", base)
	if !IsKind(wrapped, NotFound) {
		t.Error("kind lost through wrapping")
	}

	if IsKind(errors.New("plain"), NotFound) {
		t.Error("plain errors carry no kind")
	}
}

func TestErrorMessage(t *testing.T) {
	e := Wrap(CloneFailure, errors.New("exit status 128"), "cloning %s", "https://example.com/r.git")
	want := "cloning https://example.com/r.git: exit status 128"
	if e.Error() != want {
		t.Errorf("got %q, want %q", e.Error(), want)
	}
	if errors.Unwrap(e) == nil {
		t.Error("expected wrapped cause")
	}
}
