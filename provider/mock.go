package provider

import (
	"context"
	"fmt"
)

// MockProvider is a canned-response provider for testing.
type MockProvider struct {
	Translations map[string]string // Map of source text to translation
	Err          error             // When set, every call fails with this error
	CallCount    int               // Number of times Translate was called
	LastRequest  *Request          // Last request received
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"hello":        "你好",
			"good morning": "早上好",
			"thank you":    "谢谢",
		},
	}
}

// Name identifies the provider.
func (m *MockProvider) Name() string {
	return "mock"
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req Request) (string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[req.Text]; ok {
		return translation, nil
	}
	// Bracketed text for unknown translations
	return fmt.Sprintf("[%s]", req.Text), nil
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
