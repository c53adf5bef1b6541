package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// TestSuccess tests the Success constructor.
func TestSuccess(t *testing.T) {
	t.Parallel()

	o := Success("Artificial intelligence", 42, "wiki_dl/Artificial intelligence.txt", 150*time.Millisecond)

	if o.Title != "Artificial intelligence" {
		t.Errorf("expected title 'Artificial intelligence', got %q", o.Title)
	}
	if !o.OK {
		t.Error("expected OK to be true")
	}
	if o.Failed() {
		t.Error("expected Failed() to be false")
	}
	if o.RefCount != 42 {
		t.Errorf("expected RefCount 42, got %d", o.RefCount)
	}
	if o.FilePath != "wiki_dl/Artificial intelligence.txt" {
		t.Errorf("unexpected FilePath %q", o.FilePath)
	}
	if o.ErrKind != KindNone {
		t.Errorf("expected KindNone, got %v", o.ErrKind)
	}
	if o.Message != "" {
		t.Errorf("expected empty message, got %q", o.Message)
	}
	if o.Duration != 150*time.Millisecond {
		t.Errorf("expected duration 150ms, got %v", o.Duration)
	}
}

// TestFailure tests the Failure constructor.
func TestFailure(t *testing.T) {
	t.Parallel()

	t.Run("records kind and message", func(t *testing.T) {
		t.Parallel()

		o := Failure("Mercury", KindDisambiguation, errors.New("may refer to: Mercury (planet), Mercury (element)"), time.Second)

		if o.OK {
			t.Error("expected OK to be false")
		}
		if !o.Failed() {
			t.Error("expected Failed() to be true")
		}
		if o.ErrKind != KindDisambiguation {
			t.Errorf("expected KindDisambiguation, got %v", o.ErrKind)
		}
		if o.Message != "may refer to: Mercury (planet), Mercury (element)" {
			t.Errorf("unexpected message %q", o.Message)
		}
		if o.RefCount != 0 || o.FilePath != "" {
			t.Error("expected success fields to be zero")
		}
	})

	t.Run("coerces invalid kind to unknown", func(t *testing.T) {
		t.Parallel()

		o := Failure("Some page", ErrorKind("rate_limited"), errors.New("boom"), 0)
		if o.ErrKind != KindUnknown {
			t.Errorf("expected KindUnknown, got %v", o.ErrKind)
		}
	})

	t.Run("coerces none kind to unknown", func(t *testing.T) {
		t.Parallel()

		o := Failure("Some page", KindNone, errors.New("boom"), 0)
		if o.ErrKind != KindUnknown {
			t.Errorf("expected KindUnknown, got %v", o.ErrKind)
		}
	})

	t.Run("tolerates nil error", func(t *testing.T) {
		t.Parallel()

		o := Failure("Some page", KindNotFound, nil, 0)
		if o.Message != "" {
			t.Errorf("expected empty message, got %q", o.Message)
		}
		if o.ErrKind != KindNotFound {
			t.Errorf("expected KindNotFound, got %v", o.ErrKind)
		}
	})
}

// TestOutcomeJSONRoundTrip tests that outcomes survive the worker wire format.
func TestOutcomeJSONRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("failure outcome", func(t *testing.T) {
		t.Parallel()

		original := Failure("Missing page", KindNotFound, errors.New("page does not exist"), 30*time.Millisecond)

		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var decoded Outcome
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		if decoded != original {
			t.Errorf("round trip changed outcome: got %+v, expected %+v", decoded, original)
		}
	})

	t.Run("success outcome omits failure fields", func(t *testing.T) {
		t.Parallel()

		o := Success("Go (programming language)", 7, "wiki_dl/Go (programming language).txt", time.Millisecond)

		data, err := json.Marshal(o)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if _, ok := raw["error_kind"]; ok {
			t.Error("expected error_kind to be omitted for success")
		}
		if _, ok := raw["error"]; ok {
			t.Error("expected error to be omitted for success")
		}
	})
}
