package translator

import (
	"context"
	"strings"
	"time"
)

// DefaultAttemptTimeout bounds each provider call so a hung primary
// cannot delay the secondary fallback indefinitely.
const DefaultAttemptTimeout = 15 * time.Second

// Chain is the translation fallback chain. For each request it tries,
// in strict order: cache, offline check, credential check, primary
// provider, secondary provider, and finally a terminal error result.
type Chain struct {
	primary        Provider
	secondary      Provider
	cache          Cache
	queue          Queue
	online         func() bool
	configured     func() bool
	attemptTimeout time.Duration
}

// ChainOption is a functional option for configuring the Chain.
type ChainOption func(*Chain)

// WithSecondary sets the secondary provider attempted after a primary failure.
func WithSecondary(p Provider) ChainOption {
	return func(c *Chain) {
		c.secondary = p
	}
}

// WithCache sets the translation cache.
func WithCache(cache Cache) ChainOption {
	return func(c *Chain) {
		c.cache = cache
	}
}

// WithQueue sets the sync queue for requests that fail offline.
func WithQueue(q Queue) ChainOption {
	return func(c *Chain) {
		c.queue = q
	}
}

// WithConnectivity sets the probe consulted before any network attempt.
// Without one the chain assumes the client is online.
func WithConnectivity(online func() bool) ChainOption {
	return func(c *Chain) {
		c.online = online
	}
}

// WithCredentialCheck sets the check for a configured primary credential.
// Without one the chain assumes a credential is present.
func WithCredentialCheck(configured func() bool) ChainOption {
	return func(c *Chain) {
		c.configured = configured
	}
}

// WithAttemptTimeout sets the per-provider-call deadline.
// Zero disables the per-attempt deadline.
func WithAttemptTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		c.attemptTimeout = d
	}
}

// NewChain creates a fallback chain around the primary provider.
func NewChain(primary Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		primary:        primary,
		attemptTimeout: DefaultAttemptTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Translate resolves one translation request through the chain.
//
// All chain outcomes, including failures, are returned as a Result; the
// error return is reserved for empty input and context cancellation.
// Exactly one cache write happens per successful translation and none
// on failure paths.
func (c *Chain) Translate(ctx context.Context, sourceLang, targetLang, text string) (*Result, error) {
	pair := NormalizePair(sourceLang, targetLang)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyText
	}

	key := Key(pair.Source, pair.Target, trimmed)

	// 1. Cache hit: no network call.
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return &Result{Kind: ResultCached, Text: cached, Original: trimmed, Pair: pair}, nil
		}
	}

	// 2. Known offline: short-circuit, optionally parking the request.
	if c.online != nil && !c.online() {
		res := &Result{Kind: ResultOffline, Text: OfflineMessage, Original: trimmed, Pair: pair}
		if c.queue != nil {
			if id, err := c.queue.Enqueue(pair.Source, pair.Target, trimmed); err == nil {
				res.QueueID = id
			}
		}
		return res, nil
	}

	// 3. No credential: prompt for configuration before any network attempt.
	if c.configured != nil && !c.configured() {
		return &Result{Kind: ResultNeedsConfig, Text: NeedsConfigMessage, Original: trimmed, Pair: pair}, nil
	}

	// 4. Primary attempt.
	translated, err := c.attempt(ctx, c.primary, pair, trimmed)
	if err == nil {
		c.store(key, translated)
		return &Result{Kind: ResultPrimary, Text: translated, Original: trimmed, Pair: pair}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	// 5-6. Secondary attempt, regardless of why the primary failed.
	if c.secondary != nil {
		translated, err = c.attempt(ctx, c.secondary, pair, trimmed)
		if err == nil {
			c.store(key, translated)
			return &Result{Kind: ResultSecondary, Text: translated, Original: trimmed, Pair: pair}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	// 7. Terminal result retains the original input for the user.
	return &Result{Kind: ResultFailed, Text: FailedMessage, Original: trimmed, Pair: pair}, nil
}

// attempt runs a single provider call under the per-attempt deadline.
// An empty translation counts as a provider failure.
func (c *Chain) attempt(ctx context.Context, p Provider, pair LangPair, text string) (string, error) {
	if p == nil {
		return "", &ProviderError{Provider: "none", Message: "no provider configured"}
	}

	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	out, err := p.Translate(ctx, Request{
		SourceLang: pair.Source,
		TargetLang: pair.Target,
		Text:       text,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", &ProviderError{Provider: p.Name(), Message: "empty translation"}
	}
	return out, nil
}

func (c *Chain) store(key, translated string) {
	if c.cache != nil {
		_ = c.cache.Set(key, translated) // cache write failures never fail a translation
	}
}
