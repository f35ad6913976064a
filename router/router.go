// Package router classifies intercepted network requests and dispatches
// them to the asset cache (cache-first) or the translation-API path
// (network-first). Routing is stateless and idempotent per request.
package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
)

// Disposition is the routing decision for one request.
type Disposition int

const (
	// Passthrough means the request is forwarded untouched.
	Passthrough Disposition = iota
	// NetworkFirst means the request targets a translation API host.
	NetworkFirst
	// CacheFirst means the request is served from the asset cache first.
	CacheFirst
)

// String returns a short name for the disposition.
func (d Disposition) String() string {
	switch d {
	case Passthrough:
		return "passthrough"
	case NetworkFirst:
		return "network-first"
	case CacheFirst:
		return "cache-first"
	default:
		return "unknown"
	}
}

// Classifier decides the disposition of a request from its method,
// scheme, and host.
type Classifier struct {
	// APIHosts are the translation-API hosts routed network-first.
	APIHosts []string
}

// Classify applies the routing rules: non-GET methods and non-http(s)
// schemes pass through untouched; translation-API hosts go
// network-first; every other GET goes to the asset cache.
func (c *Classifier) Classify(r *http.Request) Disposition {
	if r.Method != http.MethodGet {
		return Passthrough
	}

	target := TargetURL(r)
	u, err := url.Parse(target)
	if err != nil {
		return Passthrough
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Passthrough
	}

	host := u.Hostname()
	for _, api := range c.APIHosts {
		if strings.EqualFold(host, api) {
			return NetworkFirst
		}
	}
	return CacheFirst
}

// TargetURL reconstructs the absolute URL a request addresses, for both
// proxy-style requests (absolute URL) and direct ones (Host header).
func TargetURL(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// IsNavigation reports whether a request is a page navigation: either
// the fetch metadata says so, or the Accept header prefers HTML.
func IsNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.HasPrefix(accept, "text/html")
}

// Router dispatches requests per their disposition.
type Router struct {
	classifier  Classifier
	assets      http.Handler
	api         http.Handler
	passthrough http.Handler
	logger      *log.Logger
}

// RouterOption is a functional option for configuring the Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger.
func WithRouterLogger(logger *log.Logger) RouterOption {
	return func(rt *Router) {
		rt.logger = logger
	}
}

// New creates a router over the three dispatch targets. A nil
// passthrough handler defaults to a plain forwarder.
func New(apiHosts []string, assets, api, passthrough http.Handler, opts ...RouterOption) *Router {
	if passthrough == nil {
		passthrough = NewForwarder(nil)
	}

	rt := &Router{
		classifier:  Classifier{APIHosts: apiHosts},
		assets:      assets,
		api:         api,
		passthrough: passthrough,
		logger:      log.WithPrefix("router"),
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt
}

// Classify exposes the routing decision for a request.
func (rt *Router) Classify(r *http.Request) Disposition {
	return rt.classifier.Classify(r)
}

// ServeHTTP dispatches the request to the handler its disposition selects.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d := rt.classifier.Classify(r)
	rt.logger.Debug("dispatch", "method", r.Method, "url", TargetURL(r), "disposition", d)

	switch d {
	case NetworkFirst:
		rt.api.ServeHTTP(w, r)
	case CacheFirst:
		rt.assets.ServeHTTP(w, r)
	default:
		rt.passthrough.ServeHTTP(w, r)
	}
}
