package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// maxAssetSize bounds a single cached asset body.
const maxAssetSize = 16 << 20

// CachedResponse is a stored or freshly fetched asset response.
type CachedResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FromCache   bool
}

// entryMeta is the per-entry metadata file written next to the body.
type entryMeta struct {
	URL         string `json:"url"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	FetchedAt   string `json:"fetched_at"`
}

// Store is the versioned on-disk asset cache. Each version tag owns a
// directory under the cache root; exactly one version is active at a
// time and activation garbage-collects every other tag.
type Store struct {
	dir     string // cache root holding one directory per version tag
	version string // active version tag
	origin  *url.URL
	root    string // navigation fallback document, relative to origin
	client  *http.Client
	logger  *log.Logger

	mu sync.Mutex // serializes on-disk writes
	wg sync.WaitGroup
}

// StoreOption is a functional option for configuring the Store.
type StoreOption func(*Store)

// WithClient sets the HTTP client used for fetches and revalidation.
func WithClient(client *http.Client) StoreOption {
	return func(s *Store) {
		s.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithRootDocument sets the path served as the navigation fallback
// (default "/").
func WithRootDocument(path string) StoreOption {
	return func(s *Store) {
		s.root = path
	}
}

// NewStore creates an asset store for one version tag. Relative asset
// URLs resolve against origin.
func NewStore(dir, version, origin string, opts ...StoreOption) (*Store, error) {
	if version == "" {
		return nil, fmt.Errorf("version tag must not be empty")
	}

	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parsing origin: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("origin must be http(s), got %q", origin)
	}

	s := &Store{
		dir:     dir,
		version: version,
		origin:  base,
		root:    "/",
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  log.WithPrefix("assets"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Version returns the active version tag.
func (s *Store) Version() string {
	return s.version
}

func (s *Store) activeDir() string {
	return filepath.Join(s.dir, s.version)
}

// canonical resolves a possibly relative URL against the origin.
func (s *Store) canonical(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("parsing asset URL %q: %w", rawurl, err)
	}
	return s.origin.ResolveReference(u).String(), nil
}

// entryName is the filename stem for a canonical URL.
func entryName(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Get serves a request cache-first. A cache hit returns immediately and
// triggers an asynchronous revalidation of the same URL. A miss goes to
// the network, storing the response when it succeeds. When the network
// is unreachable and the request is a navigation, the cached root
// document is served as a fallback.
func (s *Store) Get(ctx context.Context, rawurl string, navigation bool) (*CachedResponse, error) {
	canonical, err := s.canonical(rawurl)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.lookup(s.activeDir(), canonical); ok {
		s.revalidate(canonical)
		return cached, nil
	}

	fetched, err := s.fetch(ctx, canonical)
	if err != nil {
		if navigation {
			if fallback, ok := s.rootDocument(); ok {
				return fallback, nil
			}
		}
		return nil, err
	}

	if statusOK(fetched.StatusCode) {
		if werr := s.writeEntry(s.activeDir(), canonical, fetched); werr != nil {
			s.logger.Warn("storing asset failed", "url", canonical, "err", werr)
		}
	}
	return fetched, nil
}

// rootDocument returns the cached application root, when present.
func (s *Store) rootDocument() (*CachedResponse, bool) {
	canonical, err := s.canonical(s.root)
	if err != nil {
		return nil, false
	}
	return s.lookup(s.activeDir(), canonical)
}

// revalidate refreshes a cached entry in the background. The cache is
// updated only when the re-fetch reports success.
func (s *Store) revalidate(canonical string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fetched, err := s.fetch(ctx, canonical)
		if err != nil || !statusOK(fetched.StatusCode) {
			return
		}
		if werr := s.writeEntry(s.activeDir(), canonical, fetched); werr != nil {
			s.logger.Warn("revalidation store failed", "url", canonical, "err", werr)
		}
	}()
}

// Precache fetches every manifest URL into a staging directory and
// publishes the version atomically. Any failure aborts the install and
// leaves no cache for this version.
func (s *Store) Precache(ctx context.Context, urls []string) error {
	staging := s.activeDir() + ".staging"
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("clearing staging directory: %w", err)
	}
	if err := os.MkdirAll(staging, 0o750); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}

	for _, rawurl := range urls {
		canonical, err := s.canonical(rawurl)
		if err == nil {
			var fetched *CachedResponse
			fetched, err = s.fetch(ctx, canonical)
			if err == nil && !statusOK(fetched.StatusCode) {
				err = fmt.Errorf("%s: HTTP %d", canonical, fetched.StatusCode)
			}
			if err == nil {
				err = s.writeEntry(staging, canonical, fetched)
			}
		}
		if err != nil {
			os.RemoveAll(staging)
			return fmt.Errorf("precache aborted: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(s.activeDir()); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("replacing version %s: %w", s.version, err)
	}
	if err := os.Rename(staging, s.activeDir()); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("publishing version %s: %w", s.version, err)
	}

	s.logger.Info("precache complete", "version", s.version, "assets", len(urls))
	return nil
}

// Activate garbage-collects every version directory except the active
// tag, including leftover staging directories.
func (s *Store) Activate() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("listing cache versions: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == s.version {
			continue
		}
		stale := filepath.Join(s.dir, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			return fmt.Errorf("removing stale version %s: %w", entry.Name(), err)
		}
		s.logger.Info("removed stale cache version", "tag", entry.Name())
	}
	return nil
}

// CacheURLs fetches and stores arbitrary URLs into the active version.
// Failures are reported but do not stop the remaining URLs.
func (s *Store) CacheURLs(ctx context.Context, urls []string) error {
	if err := os.MkdirAll(s.activeDir(), 0o750); err != nil {
		return fmt.Errorf("creating version directory: %w", err)
	}

	var firstErr error
	for _, rawurl := range urls {
		canonical, err := s.canonical(rawurl)
		if err == nil {
			var fetched *CachedResponse
			fetched, err = s.fetch(ctx, canonical)
			if err == nil && !statusOK(fetched.StatusCode) {
				err = fmt.Errorf("%s: HTTP %d", canonical, fetched.StatusCode)
			}
			if err == nil {
				err = s.writeEntry(s.activeDir(), canonical, fetched)
			}
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Clear deletes every cache version. Subsequent requests fall through
// to the network until the next precache.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("listing cache versions: %w", err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Close waits for in-flight background revalidations.
func (s *Store) Close() {
	s.wg.Wait()
}

// lookup reads an entry from a version directory. It holds the store
// lock so a concurrent revalidation cannot serve a body and metadata
// from two different fetches.
func (s *Store) lookup(dir, canonical string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := entryName(canonical)

	metaData, err := os.ReadFile(filepath.Join(dir, name+".json")) // #nosec G304 - path derived from content hash
	if err != nil {
		return nil, false
	}
	var meta entryMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, false
	}

	body, err := os.ReadFile(filepath.Join(dir, name+".body")) // #nosec G304 - path derived from content hash
	if err != nil {
		return nil, false
	}

	return &CachedResponse{
		URL:         meta.URL,
		StatusCode:  meta.StatusCode,
		ContentType: meta.ContentType,
		Body:        body,
		FromCache:   true,
	}, true
}

// writeEntry stores body and metadata for a canonical URL. Both files
// land via temp-file renames so a crash mid-write never leaves a
// truncated entry behind.
func (s *Store) writeEntry(dir, canonical string, resp *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := entryName(canonical)

	meta, err := json.Marshal(entryMeta{
		URL:         canonical,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
		FetchedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	if err := replaceFile(dir, filepath.Join(dir, name+".body"), resp.Body); err != nil {
		return fmt.Errorf("writing asset body: %w", err)
	}
	if err := replaceFile(dir, filepath.Join(dir, name+".json"), meta); err != nil {
		return fmt.Errorf("writing asset metadata: %w", err)
	}
	return nil
}

// replaceFile writes data to a temp file in dir and renames it over path.
func replaceFile(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// fetch retrieves a URL from the network.
func (s *Store) fetch(ctx context.Context, canonical string) (*CachedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, canonical, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", canonical, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", canonical, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &CachedResponse{
		URL:         canonical,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func statusOK(code int) bool {
	return code >= 200 && code <= 299
}

// IsHTML reports whether the cached response is an HTML document.
func (r *CachedResponse) IsHTML() bool {
	return strings.HasPrefix(r.ContentType, "text/html")
}
