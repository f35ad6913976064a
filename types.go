package translator

import "context"

// ResultKind identifies how a translation request was resolved.
type ResultKind int

const (
	// ResultCached means the translation was served from the local cache.
	ResultCached ResultKind = iota
	// ResultPrimary means the primary provider produced the translation.
	ResultPrimary
	// ResultSecondary means the secondary provider produced the translation.
	ResultSecondary
	// ResultOffline means the client was offline and no network attempt was made.
	ResultOffline
	// ResultNeedsConfig means no credential is configured for the primary provider.
	ResultNeedsConfig
	// ResultFailed means both providers failed; Result.Original retains the input.
	ResultFailed
)

// String returns a short name for the result kind.
func (k ResultKind) String() string {
	switch k {
	case ResultCached:
		return "cached"
	case ResultPrimary:
		return "primary"
	case ResultSecondary:
		return "secondary"
	case ResultOffline:
		return "offline"
	case ResultNeedsConfig:
		return "needs-config"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing messages for the non-translation outcomes.
const (
	// OfflineMessage is shown when the client is offline.
	OfflineMessage = "You are offline. Your request was saved and will be translated when the connection returns."

	// NeedsConfigMessage is shown when no API credential is configured.
	NeedsConfigMessage = "No API key configured. Add your MiniMax API key in settings to enable translation."

	// FailedMessage is shown when both providers fail.
	FailedMessage = "Translation failed. Check your connection and try again."
)

// Result is the outcome of one pass through the fallback chain.
type Result struct {
	Kind     ResultKind
	Text     string   // translated text, or a user-facing message for non-translation kinds
	Original string   // the normalized input text, always set
	Pair     LangPair // the normalized language pair
	QueueID  string   // sync-queue item id when the request was parked offline
}

// OK reports whether the result carries an actual translation.
func (r *Result) OK() bool {
	switch r.Kind {
	case ResultCached, ResultPrimary, ResultSecondary:
		return true
	}
	return false
}

// Queued reports whether the request was parked on the sync queue.
func (r *Result) Queued() bool {
	return r.QueueID != ""
}

// Provider is the interface for translation backends.
type Provider interface {
	// Translate returns the translated text for a single request.
	Translate(ctx context.Context, req Request) (string, error)

	// Name identifies the provider in errors and logs.
	Name() string
}

// Request contains the parameters for a single provider call.
type Request struct {
	SourceLang string
	TargetLang string
	Text       string
}

// Cache is the interface the chain uses for translation caching.
type Cache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}

// Queue is the interface for deferring requests that failed offline.
// Enqueue returns the id of the stored item.
type Queue interface {
	Enqueue(sourceLang, targetLang, text string) (string, error)
}
