package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	translator "github.com/nabram/minimax-translator-nick-abe"
)

// DefaultMiniMaxEndpoint is the fixed translation endpoint of the
// primary provider.
const DefaultMiniMaxEndpoint = "https://api.minimax.chat/v1/text/translation"

// MiniMaxProvider is the primary translation backend. It POSTs the
// request body with uppercase language codes and authenticates with a
// bearer credential.
type MiniMaxProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// MiniMaxConfig holds configuration for the MiniMax provider.
type MiniMaxConfig struct {
	APIKey   string       // bearer credential
	Endpoint string       // override for tests/self-hosted gateways
	Client   *http.Client // optional HTTP client
}

// NewMiniMaxProvider creates a new MiniMax provider.
func NewMiniMaxProvider(cfg MiniMaxConfig) *MiniMaxProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultMiniMaxEndpoint
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &MiniMaxProvider{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
	}
}

// SetAPIKey replaces the bearer credential.
func (p *MiniMaxProvider) SetAPIKey(key string) {
	p.apiKey = key
}

// Configured reports whether a credential is present.
func (p *MiniMaxProvider) Configured() bool {
	return p.apiKey != ""
}

// Name identifies the provider.
func (p *MiniMaxProvider) Name() string {
	return "minimax"
}

type miniMaxRequest struct {
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Text       string `json:"text"`
}

type miniMaxBaseResp struct {
	StatusCode int64  `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

type miniMaxResponse struct {
	BaseResp *miniMaxBaseResp `json:"base_resp"`
	Text     string           `json:"text"`
}

// Translate calls the MiniMax endpoint. A call succeeds only when the
// HTTP status is 2xx, the nested status code (when present) is zero,
// and the translated text is non-empty; anything else is a provider
// failure left for the chain to handle.
func (p *MiniMaxProvider) Translate(ctx context.Context, req Request) (string, error) {
	if p.apiKey == "" {
		return "", translator.ErrCredentialMissing
	}

	body, err := json.Marshal(miniMaxRequest{
		SourceLang: translator.MiniMaxCode(req.SourceLang),
		TargetLang: translator.MiniMaxCode(req.TargetLang),
		Text:       req.Text,
	})
	if err != nil {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "encoding request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "building request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("User-Agent", translator.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "reading response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &translator.ProviderError{
			Provider:   p.Name(),
			Message:    "non-success status",
			StatusCode: resp.StatusCode,
		}
	}

	var decoded miniMaxResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", &translator.ParseError{Provider: p.Name(), Message: "malformed response body", Cause: err}
	}

	if decoded.BaseResp != nil && decoded.BaseResp.StatusCode != 0 {
		msg := decoded.BaseResp.StatusMsg
		if msg == "" {
			msg = "provider reported failure"
		}
		return "", &translator.ProviderError{
			Provider:   p.Name(),
			Message:    msg,
			StatusCode: resp.StatusCode,
		}
	}

	if decoded.Text == "" {
		return "", &translator.ProviderError{
			Provider:   p.Name(),
			Message:    "empty translated text",
			StatusCode: resp.StatusCode,
		}
	}

	return decoded.Text, nil
}

// Verify MiniMaxProvider implements Provider
var _ Provider = (*MiniMaxProvider)(nil)
