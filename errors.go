package translator

import (
	"errors"
	"fmt"
)

// ErrCredentialMissing indicates no credential is configured for the primary provider.
var ErrCredentialMissing = errors.New("no API credential configured")

// ErrOffline indicates the client is known to be offline.
var ErrOffline = errors.New("client is offline")

// ErrEmptyText indicates there was nothing to translate.
var ErrEmptyText = errors.New("empty input text")

// ProviderError indicates a translation provider failure: a transport
// error, a non-success HTTP status, or a provider-level error envelope.
type ProviderError struct {
	Provider   string // provider name ("minimax", "google-free", ...)
	Message    string
	StatusCode int // HTTP status, when one was received
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError indicates a provider response did not match its expected shape.
type ParseError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: parse error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Provider, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// StorageError indicates a durable-storage operation failure.
type StorageError struct {
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error: %s", e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// IsTransport reports whether err is a provider failure with no HTTP
// response at all (network unreachable, timeout, connection refused).
func IsTransport(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode == 0 && pe.Cause != nil
	}
	return false
}
