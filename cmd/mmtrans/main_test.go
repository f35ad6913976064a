package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	translator "github.com/nabram/minimax-translator-nick-abe"
)

func testConfig(t *testing.T, endpoint string) *translator.Config {
	t.Helper()
	dir := t.TempDir()
	return &translator.Config{
		APIKey:            "key-at-enqueue",
		PrimaryEndpoint:   endpoint,
		SecondaryEndpoint: endpoint,
		SourceLang:        "en",
		TargetLang:        "zh",
		CacheCapacity:     10,
		CachePath:         filepath.Join(dir, "cache.json"),
		QueuePath:         filepath.Join(dir, "pending.json"),
		AttemptTimeout:    5 * time.Second,
	}
}

func TestQueueReplayUsesCapturedCredential(t *testing.T) {
	var auths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		w.Write([]byte(`{"base_resp":{"status_code":0,"status_msg":"success"},"text":"你好"}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	defer a.close()

	if _, err := a.queue.Enqueue("en", "zh", "hello"); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	// The key rotates before the connection comes back.
	cfg.APIKey = "rotated-key"

	if synced := a.queue.Drain(context.Background()); synced != 1 {
		t.Fatalf("Drain = %d, want 1", synced)
	}

	if len(auths) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(auths))
	}
	if auths[0] != "Bearer key-at-enqueue" {
		t.Errorf("replay used %q, want the credential captured at enqueue time", auths[0])
	}
}

func TestQueueReplayWritesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base_resp":{"status_code":0,"status_msg":"success"},"text":"你好"}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	defer a.close()

	if _, err := a.queue.Enqueue("en", "zh", "hello"); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if synced := a.queue.Drain(context.Background()); synced != 1 {
		t.Fatalf("Drain = %d, want 1", synced)
	}

	if got, ok := a.tcache.Get(translator.Key("en", "zh", "hello")); !ok || got != "你好" {
		t.Errorf("cache after replay = %q, %v; want 你好", got, ok)
	}
}

func TestHostsOf(t *testing.T) {
	hosts := hostsOf("https://api.minimax.chat/v1/text/translation",
		"https://translate.googleapis.com/translate_a/single",
		"not a url")

	if len(hosts) != 2 {
		t.Fatalf("hosts = %v, want 2 entries", hosts)
	}
	if hosts[0] != "api.minimax.chat" || hosts[1] != "translate.googleapis.com" {
		t.Errorf("hosts = %v", hosts)
	}
}

func TestInputTextFromArgs(t *testing.T) {
	text, err := inputText([]string{"good", "morning"})
	if err != nil {
		t.Fatalf("inputText failed: %v", err)
	}
	if text != "good morning" {
		t.Errorf("text = %q", text)
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr strings.Builder
	if err := run([]string{"-version"}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), translator.Version) {
		t.Errorf("version output = %q", stdout.String())
	}
}
