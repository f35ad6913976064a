// Command mmtrans translates text with offline resilience: cached
// translations are served without the network, failed requests fall
// back from the primary API to a public endpoint, and requests made
// offline are queued and replayed on reconnect. In serve mode it runs
// the local offline proxy with the versioned asset cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	translator "github.com/nabram/minimax-translator-nick-abe"
	"github.com/nabram/minimax-translator-nick-abe/assets"
	"github.com/nabram/minimax-translator-nick-abe/cache"
	"github.com/nabram/minimax-translator-nick-abe/provider"
	"github.com/nabram/minimax-translator-nick-abe/router"
	"github.com/nabram/minimax-translator-nick-abe/syncqueue"
	"github.com/nabram/minimax-translator-nick-abe/worker"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mmtrans", flag.ContinueOnError)
	fs.SetOutput(stderr)

	sourceLang := fs.String("from", "", "Source language code (default from config)")
	targetLang := fs.String("to", "", "Target language code (default from config)")
	apiKey := fs.String("api-key", "", "MiniMax API key (default: MMT_API_KEY env)")
	serve := fs.Bool("serve", false, "Run the local offline proxy")
	drain := fs.Bool("drain", false, "Replay queued offline requests and exit")
	clearCache := fs.Bool("clear-cache", false, "Empty the translation cache and exit")
	showVersion := fs.Bool("version", false, "Show version")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", translator.Name, translator.FullVersion())
		if translator.BuildDate != "unknown" && translator.BuildDate != "" {
			fmt.Fprintf(stdout, "  built: %s\n", translator.BuildDate)
		}
		return nil
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := translator.LoadConfig()
	if err != nil {
		return err
	}
	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if *sourceLang != "" {
		cfg.SourceLang = *sourceLang
	}
	if *targetLang != "" {
		cfg.TargetLang = *targetLang
	}

	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	switch {
	case *clearCache:
		return app.clear(stdout)
	case *drain:
		return app.drain(stdout)
	case *serve:
		return app.serve()
	default:
		text, err := inputText(fs.Args())
		if err != nil {
			return err
		}
		return app.translate(stdout, text)
	}
}

// inputText takes the text from positional arguments or stdin.
func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// app wires the chain, caches, queue, and monitor from configuration.
type app struct {
	cfg       *translator.Config
	tcache    *cache.TranslationCache
	primary   *provider.MiniMaxProvider
	chain     *translator.Chain
	queue     *syncqueue.Queue
	monitor   *translator.Monitor
	broadcast func(syncqueue.Notice) // set in serve mode to notify the worker
}

func newApp(cfg *translator.Config) (*app, error) {
	a := &app{cfg: cfg}

	a.tcache = cache.New(cfg.CacheCapacity, cache.NewFileStore(cfg.CachePath))
	_ = a.tcache.Restore() // corrupt or missing snapshots start empty

	a.primary = provider.NewMiniMaxProvider(provider.MiniMaxConfig{
		APIKey:   cfg.APIKey,
		Endpoint: cfg.PrimaryEndpoint,
	})
	secondary := provider.NewGoogleFreeProvider(provider.GoogleFreeConfig{
		Endpoint: cfg.SecondaryEndpoint,
	})

	a.monitor = translator.NewMonitor(translator.MonitorConfig{
		ProbeURL: cfg.ProbeURL,
		Interval: cfg.ProbeInterval,
	})

	queue, err := syncqueue.New(cfg.QueuePath,
		func(ctx context.Context, item syncqueue.Item) (string, error) {
			// Replay with the credential captured at enqueue time, not
			// whatever the key has since been rotated to.
			p := a.primary
			if item.APIKey != "" {
				p = provider.NewMiniMaxProvider(provider.MiniMaxConfig{
					APIKey:   item.APIKey,
					Endpoint: cfg.PrimaryEndpoint,
				})
			}
			return p.Translate(ctx, provider.Request{
				SourceLang: item.SourceLang,
				TargetLang: item.TargetLang,
				Text:       item.Text,
			})
		},
		syncqueue.WithAPIKey(func() string { return cfg.APIKey }),
		syncqueue.WithOnSynced(func(n syncqueue.Notice) {
			key := translator.Key(n.SourceLang, n.TargetLang, n.OriginalText)
			_ = a.tcache.Set(key, n.Translation)
			if a.broadcast != nil {
				a.broadcast(n)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	a.queue = queue

	a.chain = translator.NewChain(a.primary,
		translator.WithSecondary(secondary),
		translator.WithCache(a.tcache),
		translator.WithQueue(queue),
		translator.WithConnectivity(a.monitor.Online),
		translator.WithCredentialCheck(cfg.Configured),
		translator.WithAttemptTimeout(cfg.AttemptTimeout),
	)

	return a, nil
}

func (a *app) close() {
	a.monitor.Close()
	_ = a.tcache.Persist()
}

func (a *app) translate(stdout io.Writer, text string) error {
	res, err := a.chain.Translate(context.Background(), a.cfg.SourceLang, a.cfg.TargetLang, text)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, res.Text)
	if !res.OK() {
		log.Warn("translation not delivered", "kind", res.Kind, "original", res.Original)
	}
	return nil
}

func (a *app) drain(stdout io.Writer) error {
	synced := a.queue.Drain(context.Background())
	fmt.Fprintf(stdout, "synced %d, %d still pending\n", synced, a.queue.Len())
	return nil
}

func (a *app) clear(stdout io.Writer) error {
	if err := a.tcache.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "translation cache cleared")
	return nil
}

// serve runs the local offline proxy: asset cache, request router, and
// the background worker, draining the sync queue whenever connectivity
// returns.
func (a *app) serve() error {
	manifest, err := assets.LoadManifest(a.cfg.ManifestPath)
	if err != nil {
		return err
	}

	store, err := assets.NewStore(a.cfg.AssetDir, manifest.Version, a.cfg.Origin)
	if err != nil {
		return err
	}

	w := worker.New(store)
	w.Start()
	a.broadcast = func(n syncqueue.Notice) {
		w.Send(worker.TranslationSynced{ID: n.ID, OriginalText: n.OriginalText})
	}
	if err := w.Install(context.Background(), manifest); err != nil {
		log.Warn("precache failed, serving previous version", "err", err)
	} else {
		w.Send(worker.SkipWaiting{})
	}

	a.monitor.OnChange(func(online bool) {
		if !online {
			return
		}
		go func() {
			if synced := a.queue.Drain(context.Background()); synced > 0 {
				log.Info("offline requests replayed", "count", synced)
			}
		}()
	})
	a.monitor.Start()

	apiHosts := hostsOf(a.cfg.PrimaryEndpoint, a.cfg.SecondaryEndpoint)
	rt := router.New(apiHosts,
		router.NewAssetHandler(store),
		router.NewNetworkFirstHandler(nil),
		nil,
	)

	srv := &http.Server{Addr: a.cfg.ListenAddr, Handler: rt}
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		w.Close()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info("offline proxy listening", "addr", a.cfg.ListenAddr, "version", manifest.Version)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// hostsOf extracts the hostnames of the configured API endpoints.
func hostsOf(endpoints ...string) []string {
	var hosts []string
	for _, e := range endpoints {
		if u, err := url.Parse(e); err == nil && u.Hostname() != "" {
			hosts = append(hosts, u.Hostname())
		}
	}
	return hosts
}
