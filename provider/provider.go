// Package provider implements the translation provider backends.
package provider

import translator "github.com/nabram/minimax-translator-nick-abe"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = translator.Provider

// Request is an alias to the main package type.
type Request = translator.Request
