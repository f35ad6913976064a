package cache

import (
	"container/list"
	"sync"
)

// TranslationCache is a thread-safe, capacity-bounded key-value store
// that preserves insertion order. When an insert pushes the size past
// capacity, the oldest entries are evicted until the bound holds again.
//
// Overwriting an existing key updates the value in place and keeps the
// key's original position, matching the ordered-map semantics of the
// persisted entry list.
type TranslationCache struct {
	mu       sync.RWMutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // Front = oldest, Back = newest
	store    Store      // optional durable backend
}

// New creates a translation cache with the given capacity and optional
// durable store. A capacity of 0 or less falls back to DefaultCapacity.
func New(capacity int, store Store) *TranslationCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TranslationCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		store:    store,
	}
}

// Get retrieves a cached translation.
// Returns the value and true if found, empty string and false otherwise.
func (c *TranslationCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	return el.Value.(*Entry).Value, true
}

// Set inserts or overwrites a translation, evicting the oldest entries
// when the capacity bound would be exceeded.
func (c *TranslationCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*Entry).Value = value
		return nil
	}

	el := c.order.PushBack(&Entry{Key: key, Value: value})
	c.items[key] = el
	c.evictLocked()
	return nil
}

// evictLocked removes oldest entries until size <= capacity.
func (c *TranslationCache) evictLocked() {
	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		if oldest == nil {
			return
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*Entry).Key)
	}
}

// Len returns the number of entries in the cache.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Capacity returns the entry bound.
func (c *TranslationCache) Capacity() int {
	return c.capacity
}

// Entries returns all entries in insertion order (oldest first).
func (c *TranslationCache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entriesLocked()
}

func (c *TranslationCache) entriesLocked() []Entry {
	entries := make([]Entry, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		entries = append(entries, *el.Value.(*Entry))
	}
	return entries
}

// Persist writes the entire ordered entry set to the durable store as a
// unit. A cache without a store persists nothing and returns nil.
func (c *TranslationCache) Persist() error {
	if c.store == nil {
		return nil
	}

	c.mu.RLock()
	entries := c.entriesLocked()
	c.mu.RUnlock()

	return c.store.Save(entries)
}

// Restore replaces the in-memory store wholesale with the persisted
// entry set. Missing or corrupt persisted data restores an empty cache;
// it is never a fatal condition.
func (c *TranslationCache) Restore() error {
	if c.store == nil {
		return nil
	}

	entries, err := c.store.Load()
	if err != nil {
		entries = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, len(entries))
	c.order = list.New()
	for i := range entries {
		e := entries[i]
		if el, ok := c.items[e.Key]; ok {
			el.Value.(*Entry).Value = e.Value // first occurrence keeps the position
			continue
		}
		el := c.order.PushBack(&e)
		c.items[e.Key] = el
	}
	c.evictLocked()
	return nil
}

// Clear empties both the in-memory store and the durable storage.
func (c *TranslationCache) Clear() error {
	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.order = list.New()
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Clear()
}
