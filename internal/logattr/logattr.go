// Package logattr holds the slog attributes the engine logs with.
//
// Helpers return an empty slog.Attr for zero inputs, which slog drops, so
// call sites never need nil checks.
package logattr

import (
	"log/slog"
	"time"
)

// Error creates an attribute for err under "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TokenID records a jti. Empty identifiers are dropped.
func TokenID(jti string) slog.Attr {
	if jti == "" {
		return slog.Attr{}
	}
	return slog.String("jti", jti)
}

// Subject records a sub claim.
func Subject(sub string) slog.Attr {
	if sub == "" {
		return slog.Attr{}
	}
	return slog.String("sub", sub)
}

// Algorithm records the configured signing algorithm.
func Algorithm(alg string) slog.Attr {
	return slog.String("algorithm", alg)
}

// Latency records the duration of an operation.
func Latency(d time.Duration) slog.Attr {
	return slog.Duration("latency", d)
}

// Group nests attrs under name.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
