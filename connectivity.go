package translator

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Monitor tracks network reachability by probing a URL in the
// background. Transitions between online and offline are delivered to
// registered callbacks; reconnection is the signal that triggers a
// sync-queue drain.
type Monitor struct {
	probeURL string
	interval time.Duration
	client   *http.Client

	mu       sync.Mutex
	online   bool
	onChange []func(online bool)

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// MonitorConfig configures the connectivity monitor.
type MonitorConfig struct {
	ProbeURL string        // URL fetched to test reachability
	Interval time.Duration // steady-state probe interval (default: 30s)
	Client   *http.Client  // optional HTTP client
}

// NewMonitor creates a connectivity monitor. The monitor starts
// optimistic (online) until the first probe says otherwise.
func NewMonitor(cfg MonitorConfig) *Monitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	return &Monitor{
		probeURL: cfg.ProbeURL,
		interval: interval,
		client:   client,
		online:   true,
	}
}

// Start launches the probe loop. It is a no-op when no probe URL is set;
// callers can still drive state through SetOnline.
func (m *Monitor) Start() {
	if m.probeURL == "" {
		return
	}
	m.once.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.wg.Add(1)
		go m.loop(ctx)
	})
}

// Close stops the probe loop and waits for it to exit.
func (m *Monitor) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnChange registers a callback invoked on every online/offline transition.
// Callbacks run on the monitor goroutine and must not block.
func (m *Monitor) OnChange(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// SetOnline overrides the connectivity state. Callers with their own
// reachability signal use this instead of the probe loop.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	callbacks := make([]func(bool), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.Unlock()

	if changed {
		for _, fn := range callbacks {
			fn(online)
		}
	}
}

// loop probes at the steady interval while online, and with exponential
// backoff while offline so recovery is noticed quickly.
func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	backoff := backoffSchedule(m.interval)
	for {
		ok := m.probe(ctx)
		m.SetOnline(ok)

		wait := backoff(ok)
		if ok {
			wait = m.interval
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// probe fetches the probe URL; any HTTP response at all counts as online.
func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// backoffSchedule returns a function yielding the next wait duration:
// immediate after a success, doubling after consecutive failures, capped
// at maxWait.
func backoffSchedule(maxWait time.Duration) func(success bool) time.Duration {
	var failures int
	return func(success bool) time.Duration {
		if success {
			failures = 0
			return 0
		}
		failures++
		wait := time.Second << uint(failures-1)
		if wait > maxWait || wait <= 0 {
			return maxWait
		}
		return wait
	}
}
