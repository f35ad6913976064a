// Package syncqueue provides the durable queue of translation requests
// that failed while offline, replayed when connectivity returns.
package syncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Item is one deferred translation request.
type Item struct {
	ID         string    `json:"id"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Text       string    `json:"text"`
	APIKey     string    `json:"api_key,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Notice is the completion signal emitted for each synced item.
type Notice struct {
	ID           string
	SourceLang   string
	TargetLang   string
	OriginalText string
	Translation  string
}

// TranslateFunc performs the primary-provider call for one queued item.
type TranslateFunc func(ctx context.Context, item Item) (string, error)

// Queue is a durable FIFO of deferred translation requests. Items are
// persisted to a JSON file (replaced atomically) so pending work
// survives restarts; a drain attempts each item's primary call once,
// removing successes and keeping failures for the next drain.
type Queue struct {
	mu        sync.Mutex
	path      string
	items     []Item
	translate TranslateFunc
	apiKey    func() string
	onSynced  func(Notice)
	logger    *log.Logger
}

// QueueOption is a functional option for configuring the Queue.
type QueueOption func(*Queue)

// WithOnSynced sets the callback invoked for every successfully
// replayed item.
func WithOnSynced(fn func(Notice)) QueueOption {
	return func(q *Queue) {
		q.onSynced = fn
	}
}

// WithAPIKey captures the credential current at enqueue time.
func WithAPIKey(fn func() string) QueueOption {
	return func(q *Queue) {
		q.apiKey = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) QueueOption {
	return func(q *Queue) {
		q.logger = logger
	}
}

// New creates a queue backed by the file at path, loading any persisted
// items. A missing or corrupt file starts an empty queue.
func New(path string, translate TranslateFunc, opts ...QueueOption) (*Queue, error) {
	q := &Queue{
		path:      path,
		translate: translate,
		logger:    log.WithPrefix("syncqueue"),
	}

	for _, opt := range opts {
		opt(q)
	}

	items, err := load(path)
	if err != nil {
		q.logger.Warn("pending queue unreadable, starting empty", "path", path, "err", err)
		items = nil
	}
	q.items = items
	return q, nil
}

// Enqueue appends a request that failed due to lack of connectivity and
// persists the queue. It returns the new item's id.
func (q *Queue) Enqueue(sourceLang, targetLang, text string) (string, error) {
	item := Item{
		ID:         uuid.NewString(),
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Text:       text,
		EnqueuedAt: time.Now().UTC(),
	}
	if q.apiKey != nil {
		item.APIKey = q.apiKey()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, item)
	if err := q.saveLocked(); err != nil {
		q.items = q.items[:len(q.items)-1]
		return "", err
	}

	q.logger.Info("request parked for sync", "id", item.ID)
	return item.ID, nil
}

// Drain attempts each queued item's primary-provider call once.
// Successes are removed and announced through the synced callback;
// failures stay queued for the next drain, as do items enqueued while
// the drain was replaying. One item's failure never aborts the rest.
// It returns the number of items synced.
func (q *Queue) Drain(ctx context.Context) int {
	q.mu.Lock()
	pending := make([]Item, len(q.items))
	copy(pending, q.items)
	q.mu.Unlock()

	if len(pending) == 0 {
		return 0
	}
	q.logger.Info("draining pending translations", "count", len(pending))

	var synced []Notice
	for _, item := range pending {
		if ctx.Err() != nil {
			break
		}

		translation, err := q.translate(ctx, item)
		if err != nil {
			q.logger.Warn("sync attempt failed", "id", item.ID, "err", err)
			continue
		}
		synced = append(synced, Notice{
			ID:           item.ID,
			SourceLang:   item.SourceLang,
			TargetLang:   item.TargetLang,
			OriginalText: item.Text,
			Translation:  translation,
		})
	}

	// Remove only the delivered items. Items enqueued while the drain was
	// replaying are not in the snapshot and must stay queued.
	if len(synced) > 0 {
		delivered := make(map[string]bool, len(synced))
		for _, n := range synced {
			delivered[n.ID] = true
		}

		q.mu.Lock()
		kept := q.items[:0]
		for _, item := range q.items {
			if !delivered[item.ID] {
				kept = append(kept, item)
			}
		}
		q.items = kept
		if err := q.saveLocked(); err != nil {
			q.logger.Error("persisting queue after drain failed", "err", err)
		}
		q.mu.Unlock()
	}

	for _, notice := range synced {
		if q.onSynced != nil {
			q.onSynced(notice)
		}
	}
	return len(synced)
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a copy of the pending items in order.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := make([]Item, len(q.items))
	copy(items, q.items)
	return items
}

// Clear drops all pending items and the persisted file.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	if err := os.Remove(q.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing queue file: %w", err)
	}
	return nil
}

// saveLocked persists the queue with a temp-file rename.
func (q *Queue) saveLocked() error {
	data, err := json.MarshalIndent(q.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding queue: %w", err)
	}

	dir := filepath.Dir(q.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating queue directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".queue-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing queue file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing queue file: %w", err)
	}

	if err := os.Rename(tmpName, q.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing queue file: %w", err)
	}
	return nil
}

// load reads the persisted item list. A missing file is an empty queue.
func load(path string) ([]Item, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is configured by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding queue file: %w", err)
	}
	return items, nil
}
