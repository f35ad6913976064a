package router

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	translator "github.com/nabram/minimax-translator-nick-abe"
	"github.com/nabram/minimax-translator-nick-abe/assets"
)

// AssetHandler serves GET requests cache-first from the asset store.
type AssetHandler struct {
	store  *assets.Store
	logger *log.Logger
}

// NewAssetHandler creates the cache-first asset handler.
func NewAssetHandler(store *assets.Store) *AssetHandler {
	return &AssetHandler{
		store:  store,
		logger: log.WithPrefix("assets"),
	}
}

// ServeHTTP resolves the request through the asset store.
func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.store.Get(r.Context(), TargetURL(r), IsNavigation(r))
	if err != nil {
		h.logger.Warn("asset unavailable", "url", TargetURL(r), "err", err)
		http.Error(w, "asset unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	if resp.FromCache {
		w.Header().Set("X-Cache", "HIT")
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// NetworkFirstHandler forwards translation-API requests to the network
// and degrades to an offline JSON response when it is unreachable.
type NetworkFirstHandler struct {
	forward *Forwarder
	logger  *log.Logger
}

// NewNetworkFirstHandler creates the network-first API handler.
func NewNetworkFirstHandler(client *http.Client) *NetworkFirstHandler {
	return &NetworkFirstHandler{
		forward: NewForwarder(client),
		logger:  log.WithPrefix("api"),
	}
}

// ServeHTTP forwards to the network; transport failure yields 503 with
// an offline body instead of a broken connection.
func (h *NetworkFirstHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.forward.Forward(w, r); err != nil {
		h.logger.Warn("network unreachable", "url", TargetURL(r), "err", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "offline",
			"message": translator.OfflineMessage,
		})
	}
}

// Forwarder relays a request to its target URL and copies the response back.
type Forwarder struct {
	client *http.Client
}

// NewForwarder creates a forwarder. A nil client gets a default with a
// 30 second timeout.
func NewForwarder(client *http.Client) *Forwarder {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Forwarder{client: client}
}

// hop-by-hop headers stripped when relaying.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Forward relays the request. An error is returned only when no
// response was received at all; HTTP error statuses are relayed as-is.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request) error {
	out, err := http.NewRequestWithContext(r.Context(), r.Method, TargetURL(r), r.Body)
	if err != nil {
		return err
	}

	out.Header = r.Header.Clone()
	for _, h := range hopHeaders {
		out.Header.Del(h)
	}

	resp, err := f.client.Do(out)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	header := w.Header()
	for k, vv := range resp.Header {
		for _, v := range vv {
			header.Add(k, v)
		}
	}
	for _, h := range hopHeaders {
		header.Del(h)
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
	return nil
}

// ServeHTTP lets a bare Forwarder act as the passthrough handler.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := f.Forward(w, r); err != nil {
		http.Error(w, "upstream unreachable", http.StatusBadGateway)
	}
}
