package wiki

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/wikirefs/wikirefs/internal/model"
)

// fakeNetError implements net.Error for classification tests.
type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

// TestFetchErrorError tests the per-kind error messages.
func TestFetchErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "disambiguation with options",
			err: &FetchError{
				Title:   "Phoenix",
				Kind:    model.KindDisambiguation,
				Options: []string{"Phoenix (mythology)", "Phoenix, Arizona"},
			},
			want: `"Phoenix" is a disambiguation page, may refer to: Phoenix (mythology), Phoenix, Arizona`,
		},
		{
			name: "disambiguation without options",
			err:  &FetchError{Title: "Phoenix", Kind: model.KindDisambiguation},
			want: `"Phoenix" is a disambiguation page`,
		},
		{
			name: "not found",
			err:  &FetchError{Title: "No such page", Kind: model.KindNotFound},
			want: `page "No such page" does not exist`,
		},
		{
			name: "network timeout",
			err: &FetchError{
				Title: "Slow article",
				Kind:  model.KindNetworkTimeout,
				Cause: errors.New("deadline exceeded"),
			},
			want: `request for "Slow article" timed out: deadline exceeded`,
		},
		{
			name: "unknown with cause",
			err: &FetchError{
				Title: "Broken",
				Kind:  model.KindUnknown,
				Cause: errors.New("connection refused"),
			},
			want: `failed to fetch "Broken": connection refused`,
		},
		{
			name: "unknown without cause",
			err:  &FetchError{Title: "Broken", Kind: model.KindUnknown},
			want: `failed to fetch "Broken"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestFetchErrorUnwrap tests cause propagation through errors.Is.
func TestFetchErrorUnwrap(t *testing.T) {
	t.Parallel()

	t.Run("wrapped cause matches with errors.Is", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("root cause")
		err := &FetchError{Title: "X", Kind: model.KindUnknown, Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to match the cause")
		}
	})

	t.Run("nil cause unwraps to nil", func(t *testing.T) {
		t.Parallel()

		err := &FetchError{Title: "X", Kind: model.KindNotFound}
		if err.Unwrap() != nil {
			t.Errorf("expected nil, got %v", err.Unwrap())
		}
	})
}

// TestSummarizeOptions tests candidate list truncation in messages.
func TestSummarizeOptions(t *testing.T) {
	t.Parallel()

	t.Run("short list is joined in full", func(t *testing.T) {
		t.Parallel()

		got := summarizeOptions([]string{"A", "B", "C"})
		if got != "A, B, C" {
			t.Errorf("expected 'A, B, C', got %q", got)
		}
	})

	t.Run("long list is truncated with ellipsis", func(t *testing.T) {
		t.Parallel()

		got := summarizeOptions([]string{"A", "B", "C", "D", "E", "F", "G"})
		if got != "A, B, C, D, E, ..." {
			t.Errorf("expected truncated list, got %q", got)
		}
	})

	t.Run("exactly the cap is joined in full", func(t *testing.T) {
		t.Parallel()

		got := summarizeOptions([]string{"A", "B", "C", "D", "E"})
		if got != "A, B, C, D, E" {
			t.Errorf("expected full list, got %q", got)
		}
	})
}

// TestClassifyNetworkError tests the transport error taxonomy mapping.
func TestClassifyNetworkError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want model.ErrorKind
	}{
		{
			name: "timeout net error",
			err:  &fakeNetError{timeout: true},
			want: model.KindNetworkTimeout,
		},
		{
			name: "non-timeout net error",
			err:  &fakeNetError{timeout: false},
			want: model.KindUnknown,
		},
		{
			name: "context deadline exceeded",
			err:  context.DeadlineExceeded,
			want: model.KindNetworkTimeout,
		},
		{
			name: "wrapped context deadline exceeded",
			err:  fmt.Errorf("request failed: %w", context.DeadlineExceeded),
			want: model.KindNetworkTimeout,
		},
		{
			name: "plain error",
			err:  errors.New("something else"),
			want: model.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyNetworkError(tt.err); got != tt.want {
				t.Errorf("classifyNetworkError(%v) = %q, expected %q", tt.err, got, tt.want)
			}
		})
	}
}
