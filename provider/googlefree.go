package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	translator "github.com/nabram/minimax-translator-nick-abe"
)

// DefaultGoogleFreeEndpoint is the public translation endpoint used as
// the secondary provider. It needs no credential.
const DefaultGoogleFreeEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleFreeProvider is the secondary translation backend: a GET to a
// public endpoint whose response is a nested array of translated
// segments.
type GoogleFreeProvider struct {
	endpoint string
	client   *http.Client
}

// GoogleFreeConfig holds configuration for the secondary provider.
type GoogleFreeConfig struct {
	Endpoint string       // override for tests
	Client   *http.Client // optional HTTP client
}

// NewGoogleFreeProvider creates a new secondary provider.
func NewGoogleFreeProvider(cfg GoogleFreeConfig) *GoogleFreeProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultGoogleFreeEndpoint
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &GoogleFreeProvider{endpoint: endpoint, client: client}
}

// Name identifies the provider.
func (p *GoogleFreeProvider) Name() string {
	return "google-free"
}

// Translate calls the public endpoint with client, sl, tl, dt=t and q
// parameters and concatenates the first element of every segment tuple,
// in order. A missing or empty segment array is a parse failure.
func (p *GoogleFreeProvider) Translate(ctx context.Context, req Request) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", translator.ShortCode(req.SourceLang))
	query.Set("tl", translator.ShortCode(req.TargetLang))
	query.Set("dt", "t")
	query.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "building request", Cause: err}
	}
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

	return parseSegments(p.Name(), data)
}

// parseSegments extracts the translation from the endpoint's response
// shape: an array whose first element is an array of
// [translatedSegment, originalSegment, ...] tuples.
func parseSegments(name string, data []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", &translator.ParseError{Provider: name, Message: "malformed response body", Cause: err}
	}
	if len(payload) == 0 {
		return "", &translator.ParseError{Provider: name, Message: "empty response array"}
	}

	segments, ok := payload[0].([]any)
	if !ok || len(segments) == 0 {
		return "", &translator.ParseError{Provider: name, Message: "missing segment array"}
	}

	var sb strings.Builder
	for _, raw := range segments {
		tuple, ok := raw.([]any)
		if !ok || len(tuple) == 0 {
			return "", &translator.ParseError{Provider: name, Message: "malformed segment tuple"}
		}
		seg, ok := tuple[0].(string)
		if !ok {
			return "", &translator.ParseError{Provider: name, Message: "segment is not a string"}
		}
		sb.WriteString(seg)
	}

	if sb.Len() == 0 {
		return "", &translator.ParseError{Provider: name, Message: "empty translation"}
	}
	return sb.String(), nil
}

// Verify GoogleFreeProvider implements Provider
var _ Provider = (*GoogleFreeProvider)(nil)
