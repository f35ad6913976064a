package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestTranslationCache_GetSet(t *testing.T) {
	c := New(10, nil)

	if err := c.Set("en:zh:hello", "你好"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get("en:zh:hello")
	if !ok {
		t.Error("Get should return true for existing key")
	}
	if val != "你好" {
		t.Errorf("Get returned %q, want %q", val, "你好")
	}

	val, ok = c.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing key")
	}
	if val != "" {
		t.Errorf("Get should return empty string for missing key, got %q", val)
	}
}

func TestTranslationCache_DefaultCapacity(t *testing.T) {
	c := New(0, nil)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity(), DefaultCapacity)
	}
}

func TestTranslationCache_EvictsOldestFirst(t *testing.T) {
	c := New(3, nil)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")
	c.Set("d", "4") // evicts a

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %q should survive", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestTranslationCache_BoundHoldsUnderOverflow(t *testing.T) {
	c := New(DefaultCapacity, nil)

	total := DefaultCapacity + 100
	for i := 0; i < total; i++ {
		c.Set(fmt.Sprintf("key-%04d", i), fmt.Sprintf("val-%d", i))
	}

	if c.Len() != DefaultCapacity {
		t.Fatalf("Len = %d, want exactly %d", c.Len(), DefaultCapacity)
	}

	// The 100 oldest are gone; the DefaultCapacity most recent remain.
	for i := 0; i < 100; i++ {
		if _, ok := c.Get(fmt.Sprintf("key-%04d", i)); ok {
			t.Fatalf("key-%04d should have been evicted", i)
		}
	}
	for i := 100; i < total; i++ {
		if _, ok := c.Get(fmt.Sprintf("key-%04d", i)); !ok {
			t.Fatalf("key-%04d should still be cached", i)
		}
	}
}

func TestTranslationCache_OverwriteKeepsPosition(t *testing.T) {
	c := New(2, nil)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "updated") // value changes, insertion position does not
	c.Set("c", "3")       // a is still oldest and gets evicted

	if _, ok := c.Get("a"); ok {
		t.Error("overwritten entry keeps its original position and evicts first")
	}
	if v, _ := c.Get("b"); v != "2" {
		t.Errorf("b = %q, want 2", v)
	}

	c2 := New(5, nil)
	c2.Set("x", "1")
	c2.Set("x", "2")
	if v, _ := c2.Get("x"); v != "2" {
		t.Errorf("overwrite should update the value, got %q", v)
	}
	if c2.Len() != 1 {
		t.Errorf("Len = %d, want 1 after overwrite", c2.Len())
	}
}

func TestTranslationCache_EntriesOrder(t *testing.T) {
	c := New(10, nil)
	c.Set("first", "1")
	c.Set("second", "2")
	c.Set("third", "3")

	entries := c.Entries()
	want := []string{"first", "second", "third"}
	if len(entries) != len(want) {
		t.Fatalf("Entries length = %d, want %d", len(entries), len(want))
	}
	for i, key := range want {
		if entries[i].Key != key {
			t.Errorf("entries[%d].Key = %q, want %q", i, entries[i].Key, key)
		}
	}
}

func TestTranslationCache_Clear(t *testing.T) {
	c := New(10, nil)
	c.Set("a", "1")
	c.Set("b", "2")

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("cleared cache should not contain keys")
	}
}

func TestTranslationCache_Concurrent(t *testing.T) {
	c := New(100, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("key-%d-%d", n, j)
				c.Set(key, "value")
				c.Get(key)
				c.Len()
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}
