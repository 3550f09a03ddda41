package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
)

// DefaultProbeInterval is how often the monitor re-checks backend connectivity.
const DefaultProbeInterval = 30 * time.Second

// Prober issues a liveness probe against the backend.
type Prober interface {
	Health(ctx context.Context) error
}

// Monitor tracks backend connectivity. It probes once at Start and then on a fixed interval;
// a manual Retry is accepted only while disconnected and is dropped when a probe is already
// outstanding, so at most one probe runs at a time. Stop releases the interval timer.
type Monitor struct {
	prober   Prober
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	status   models.Connectivity
	probing  bool
	onChange func(models.Connectivity)

	done     chan struct{}
	stopOnce sync.Once
}

// NewMonitor creates a Monitor in the unknown state. A non-positive interval falls back to
// the default. The monitor does not probe until Start is called.
func NewMonitor(prober Prober, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Monitor{
		prober:   prober,
		interval: interval,
		logger:   logger,
		status:   models.ConnectivityUnknown,
		done:     make(chan struct{}),
	}
}

// OnChange registers the hook invoked after every completed probe with the resulting status.
// It must be set before Start.
func (m *Monitor) OnChange(fn func(models.Connectivity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Start launches the probe loop. The first probe fires immediately rather than waiting for
// the first interval tick.
func (m *Monitor) Start() {
	go m.run()
}

// Stop cancels the recurring probe timer. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

// Status returns the current connectivity snapshot.
func (m *Monitor) Status() models.Connectivity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Probing reports whether a probe is currently outstanding.
func (m *Monitor) Probing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probing
}

// Retry requests one immediate probe outside the interval schedule. It only acts while the
// backend is disconnected, and it is a no-op while a probe from either path is outstanding.
func (m *Monitor) Retry() {
	m.mu.Lock()
	if m.status != models.ConnectivityDisconnected || m.probing {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	go m.probe()
}

func (m *Monitor) run() {
	m.probe()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe()
		case <-m.done:
			return
		}
	}
}

func (m *Monitor) probe() {
	m.mu.Lock()
	if m.probing {
		m.mu.Unlock()
		return
	}
	m.probing = true
	m.mu.Unlock()

	err := m.prober.Health(context.Background())

	next := models.ConnectivityConnected
	if err != nil {
		next = models.ConnectivityDisconnected
	}

	m.mu.Lock()
	m.probing = false
	prev := m.status
	m.status = next
	onChange := m.onChange
	m.mu.Unlock()

	if prev != next {
		if err != nil {
			m.logger.Warn("Backend connectivity lost", slog.String("error", err.Error()))
		} else {
			m.logger.Info("Backend connectivity established")
		}
	}

	if onChange != nil {
		onChange(next)
	}
}
