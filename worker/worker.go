// Package worker runs the background process that owns the asset
// cache. The foreground side never touches the cache directly; it sends
// typed control messages and receives broadcast events instead.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nabram/minimax-translator-nick-abe/assets"
)

// Message is a control message accepted by the worker.
type Message interface {
	isMessage()
}

// SkipWaiting activates the current cache version immediately,
// garbage-collecting every stale version tag.
type SkipWaiting struct{}

// CacheURLs adds arbitrary URLs to the active asset cache.
type CacheURLs struct {
	URLs []string
}

// ClearCache deletes every cache version.
type ClearCache struct{}

// TranslationSynced is broadcast to subscribers when a queued
// translation has been delivered.
type TranslationSynced struct {
	ID           string
	OriginalText string
}

func (SkipWaiting) isMessage()       {}
func (CacheURLs) isMessage()         {}
func (ClearCache) isMessage()        {}
func (TranslationSynced) isMessage() {}

// Worker owns the asset store and processes messages on a single
// goroutine, mirroring the single-threaded event loop of the background
// process it models.
type Worker struct {
	store  *assets.Store
	msgs   chan Message
	logger *log.Logger

	mu   sync.Mutex
	subs []chan TranslationSynced

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a worker around an installed asset store.
func New(store *assets.Store) *Worker {
	return &Worker{
		store:  store,
		msgs:   make(chan Message, 16),
		logger: log.WithPrefix("worker"),
	}
}

// Install precaches the manifest into the worker's version. A failed
// precache aborts the installation and leaves any previous version
// untouched.
func (w *Worker) Install(ctx context.Context, m *assets.Manifest) error {
	if err := w.store.Precache(ctx, m.URLs); err != nil {
		w.logger.Error("installation failed", "version", w.store.Version(), "err", err)
		return err
	}
	return nil
}

// Start launches the message loop.
func (w *Worker) Start() {
	w.once.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		w.cancel = cancel
		w.wg.Add(1)
		go w.loop(ctx)
	})
}

// Send delivers a control message to the worker. It blocks only while
// the message buffer is full.
func (w *Worker) Send(msg Message) {
	w.msgs <- msg
}

// Subscribe returns a channel receiving TranslationSynced broadcasts.
// Slow subscribers drop events rather than stalling the loop.
func (w *Worker) Subscribe() <-chan TranslationSynced {
	ch := make(chan TranslationSynced, 8)
	w.mu.Lock()
	w.subs = append(w.subs, ch)
	w.mu.Unlock()
	return ch
}

// Close stops the message loop, waits for it, and waits out pending
// asset revalidations.
func (w *Worker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.store.Close()
}

func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.msgs:
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg Message) {
	switch m := msg.(type) {
	case SkipWaiting:
		if err := w.store.Activate(); err != nil {
			w.logger.Error("activation failed", "err", err)
			return
		}
		w.logger.Info("version activated", "tag", w.store.Version())

	case CacheURLs:
		fetchCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		if err := w.store.CacheURLs(fetchCtx, m.URLs); err != nil {
			w.logger.Warn("caching urls failed", "err", err)
		}

	case ClearCache:
		if err := w.store.Clear(); err != nil {
			w.logger.Error("clearing cache failed", "err", err)
			return
		}
		w.logger.Info("asset cache cleared")

	case TranslationSynced:
		w.broadcast(m)
	}
}

func (w *Worker) broadcast(ev TranslationSynced) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- ev:
		default: // subscriber not keeping up
		}
	}
}
