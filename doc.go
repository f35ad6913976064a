// Package translator provides the offline-resilience core of a
// speech/text translator: a bounded persisted translation cache, a
// versioned asset cache, and a fallback chain that degrades gracefully
// from the primary translation API to a public secondary API to a
// cached or offline result.
//
// Basic usage:
//
//	import (
//	    "context"
//	    translator "github.com/nabram/minimax-translator-nick-abe"
//	    "github.com/nabram/minimax-translator-nick-abe/cache"
//	    "github.com/nabram/minimax-translator-nick-abe/provider"
//	)
//
//	func main() {
//	    store := cache.NewFileStore("translations.json")
//	    tc := cache.New(cache.DefaultCapacity, store)
//	    _ = tc.Restore()
//
//	    primary := provider.NewMiniMaxProvider(provider.MiniMaxConfig{
//	        APIKey: os.Getenv("MMT_API_KEY"),
//	    })
//	    secondary := provider.NewGoogleFreeProvider(provider.GoogleFreeConfig{})
//
//	    chain := translator.NewChain(primary,
//	        translator.WithSecondary(secondary),
//	        translator.WithCache(tc),
//	    )
//
//	    res, err := chain.Translate(context.Background(), "en", "zh", "hello")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Text) // 你好
//	}
package translator
