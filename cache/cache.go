// Package cache provides the bounded, persisted translation cache.
//
// The in-memory store keeps entries in insertion order so overflow
// evicts the oldest translations first. The whole ordered entry set is
// persisted as a unit through a Store backend (JSON file or Redis) and
// restored wholesale on startup.
package cache

// DefaultCapacity is the default entry bound for the translation cache.
const DefaultCapacity = 500

// Entry is one cached translation, keyed by the canonical
// source:target:text triple.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store is durable storage for the full ordered entry list.
// Save replaces the persisted set atomically; Load returns the set in
// its persisted order.
type Store interface {
	Save(entries []Entry) error
	Load() ([]Entry, error)
	Clear() error
}
