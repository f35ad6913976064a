// Package assets provides the versioned static-asset cache: a fixed
// manifest of application-shell resources precached as a unit and
// served cache-first with background revalidation.
package assets

import (
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

// Manifest is the fixed set of shell resources for one cache version.
// The version tag names the on-disk cache; bumping it retires every
// previous version on activation.
type Manifest struct {
	Version string   `yaml:"version"`
	URLs    []string `yaml:"urls"`
}

// LoadManifest reads and validates a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is configured by the operator
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest invariants.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("manifest version must not be empty")
	}
	if len(m.URLs) == 0 {
		return fmt.Errorf("manifest must list at least one URL")
	}
	seen := make(map[string]bool, len(m.URLs))
	for _, u := range m.URLs {
		if u == "" {
			return fmt.Errorf("manifest contains an empty URL")
		}
		if seen[u] {
			return fmt.Errorf("manifest lists %q twice", u)
		}
		seen[u] = true
	}
	return nil
}

// Merge appends URLs not already present, preserving manifest order.
func (m *Manifest) Merge(urls []string) {
	seen := make(map[string]bool, len(m.URLs))
	for _, u := range m.URLs {
		seen[u] = true
	}
	for _, u := range urls {
		if u != "" && !seen[u] {
			m.URLs = append(m.URLs, u)
			seen[u] = true
		}
	}
}

// DiscoverShellAssets extracts asset references from the app-shell HTML:
// script sources, stylesheet/icon links, and image sources, in document
// order, deduplicated.
func DiscoverShellAssets(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing shell HTML: %w", err)
	}

	var urls []string
	seen := make(map[string]bool)
	add := func(u string, ok bool) {
		if ok && u != "" && !seen[u] {
			urls = append(urls, u)
			seen[u] = true
		}
	}

	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		add(sel.Attr("src"))
	})
	doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
		add(sel.Attr("href"))
	})
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		add(sel.Attr("src"))
	})

	return urls, nil
}
