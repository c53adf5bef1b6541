package wiki

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/wikirefs/wikirefs/internal/model"
)

// Client construction errors.
var (
	// ErrNoEndpoint is returned when the API endpoint is empty.
	ErrNoEndpoint = errors.New("no API endpoint specified")

	// ErrInvalidEndpoint is returned when the API endpoint is not an
	// absolute http or https URL.
	ErrInvalidEndpoint = errors.New("invalid API endpoint: must be an absolute http(s) URL")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address
	// is not in "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be in host:port format")
)

// maxOptionsInMessage caps how many disambiguation candidates appear in
// the error message. The full list stays available via Options.
const maxOptionsInMessage = 5

// FetchError represents a failure to fetch one page's references.
// Kind places the failure in the outcome taxonomy so the caller can
// record it without inspecting the underlying cause.
type FetchError struct {
	// Title is the page title that was requested.
	Title string

	// Kind classifies the failure.
	Kind model.ErrorKind

	// Options lists the candidate titles of a disambiguation page.
	// Empty for every other kind.
	Options []string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case model.KindDisambiguation:
		if len(e.Options) > 0 {
			return fmt.Sprintf("%q is a disambiguation page, may refer to: %s", e.Title, summarizeOptions(e.Options))
		}
		return fmt.Sprintf("%q is a disambiguation page", e.Title)
	case model.KindNotFound:
		return fmt.Sprintf("page %q does not exist", e.Title)
	case model.KindNetworkTimeout:
		return fmt.Sprintf("request for %q timed out: %v", e.Title, e.Cause)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("failed to fetch %q: %v", e.Title, e.Cause)
		}
		return fmt.Sprintf("failed to fetch %q", e.Title)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// summarizeOptions joins the first few candidates for display.
func summarizeOptions(options []string) string {
	if len(options) <= maxOptionsInMessage {
		return strings.Join(options, ", ")
	}
	return strings.Join(options[:maxOptionsInMessage], ", ") + ", ..."
}

// classifyNetworkError maps a transport error onto the outcome taxonomy.
// Timeouts get their own kind; everything else is unknown.
func classifyNetworkError(err error) model.ErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.KindNetworkTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.KindNetworkTimeout
	}
	return model.KindUnknown
}
