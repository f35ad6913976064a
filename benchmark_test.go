package translator_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	translator "github.com/nabram/minimax-translator-nick-abe"
	"github.com/nabram/minimax-translator-nick-abe/cache"
	"github.com/nabram/minimax-translator-nick-abe/provider"
)

// Benchmarks for performance validation

func BenchmarkKey(b *testing.B) {
	text := "Hello World, this is a sample text for translation"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		translator.Key("en", "zh", text)
	}
}

func BenchmarkHashKey(b *testing.B) {
	text := "Hello World, this is a sample text for translation"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		translator.HashKey("en", "zh", text)
	}
}

func BenchmarkTranslationCache_Get(b *testing.B) {
	c := cache.New(cache.DefaultCapacity, cache.NewFileStore(filepath.Join(b.TempDir(), "cache.json")))
	c.Set("en:zh:hello", "你好")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("en:zh:hello")
	}
}

func BenchmarkTranslationCache_SetWithEviction(b *testing.B) {
	c := cache.New(cache.DefaultCapacity, cache.NewFileStore(filepath.Join(b.TempDir(), "cache.json")))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("en:zh:text-%d", i), "value")
	}
}

func BenchmarkChain_CacheHit(b *testing.B) {
	p := provider.NewMockProvider()
	c := cache.New(cache.DefaultCapacity, cache.NewFileStore(filepath.Join(b.TempDir(), "cache.json")))
	chain := translator.NewChain(p, translator.WithCache(c))

	ctx := context.Background()
	if _, err := chain.Translate(ctx, "en", "zh", "hello"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chain.Translate(ctx, "en", "zh", "hello")
	}
}
