package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	translator "github.com/nabram/minimax-translator-nick-abe"
)

func miniMaxServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *MiniMaxProvider) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewMiniMaxProvider(MiniMaxConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL,
		Client:   srv.Client(),
	})
	return srv, p
}

func TestMiniMaxProvider_Success(t *testing.T) {
	var gotBody map[string]string
	var gotAuth string

	_, p := miniMaxServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"base_resp": map[string]any{"status_code": 0},
			"text":      "你好",
		})
	})

	out, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "你好" {
		t.Errorf("translation = %q, want 你好", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer credential", gotAuth)
	}
	// Language codes go out uppercase.
	if gotBody["source_lang"] != "EN" || gotBody["target_lang"] != "ZH" {
		t.Errorf("request langs = %q -> %q, want EN -> ZH", gotBody["source_lang"], gotBody["target_lang"])
	}
	if gotBody["text"] != "hello" {
		t.Errorf("request text = %q, want hello", gotBody["text"])
	}
}

func TestMiniMaxProvider_ProviderLevelFailure(t *testing.T) {
	_, p := miniMaxServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"base_resp": map[string]any{"status_code": 1004, "status_msg": "invalid api key"},
		})
	})

	_, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	var pe *translator.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.Message != "invalid api key" {
		t.Errorf("Message = %q, want the provider's status_msg", pe.Message)
	}
}

func TestMiniMaxProvider_NonSuccessStatus(t *testing.T) {
	_, p := miniMaxServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	_, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	var pe *translator.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", pe.StatusCode)
	}
}

func TestMiniMaxProvider_EmptyTranslatedText(t *testing.T) {
	_, p := miniMaxServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"base_resp": map[string]any{"status_code": 0},
			"text":      "",
		})
	})

	_, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	var pe *translator.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError for empty text", err)
	}
}

func TestMiniMaxProvider_MissingBaseRespIsSuccess(t *testing.T) {
	_, p := miniMaxServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"text": "你好"})
	})

	out, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "你好" {
		t.Errorf("translation = %q, want 你好", out)
	}
}

func TestMiniMaxProvider_MalformedBody(t *testing.T) {
	_, p := miniMaxServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	_, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	var pe *translator.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestMiniMaxProvider_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listening anymore

	p := NewMiniMaxProvider(MiniMaxConfig{APIKey: "test-key", Endpoint: url})

	_, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	if !translator.IsTransport(err) {
		t.Errorf("err = %v, want a transport failure", err)
	}
}

func TestMiniMaxProvider_MissingCredential(t *testing.T) {
	p := NewMiniMaxProvider(MiniMaxConfig{})

	if p.Configured() {
		t.Error("provider without key should not report configured")
	}

	_, err := p.Translate(context.Background(), Request{SourceLang: "en", TargetLang: "zh", Text: "hello"})
	if !errors.Is(err, translator.ErrCredentialMissing) {
		t.Errorf("err = %v, want ErrCredentialMissing", err)
	}
}
