// Package log provides logging with automatic redaction of credentials,
// built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic masking of credential-bearing values (cookies, tokens, keys)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Why redaction
//
// wikirefs can talk to private MediaWiki installations through configured
// authentication headers, and verbose mode logs every API request. The
// RedactHandler masks header and credential values before they reach the
// underlying handler:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (JWTs, bearer tokens)
//   - Session identifiers and authentication tokens
//
// Even in verbose mode, such values are masked so debug logs can be shared
// in bug reports without leaking wiki credentials.
//
// # Usage
//
//	// Create a redacting logger
//	logger := log.NewRedactLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("api request",
//	    "cookie", "wikiToken=abc123",  // masked before emission
//	    "url", "https://wiki.internal/w/api.php",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
