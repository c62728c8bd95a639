// Package connmgr owns the lifecycle of the active storage adapter.
//
// A Manager connects the primary backend with bounded exponential backoff,
// falls back to the secondary backend when the primary is exhausted, brings
// the schema up to date and then hands the connected adapter to callers.
// It is the only component that connects or disconnects adapters.
package connmgr

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/logging"
	"github.com/dmitrijs2005/docstore/internal/storage"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Options is the primary backend's retry policy. The fallback is tried once.
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

type Manager struct {
	primary  storage.Adapter
	fallback storage.Adapter
	opts     Options
	log      logging.Logger
	now      func() time.Time

	// lifecycle serializes Initialize, Reconnect and Close.
	lifecycle sync.Mutex

	mu       sync.RWMutex
	state    State
	active   storage.Adapter
	attempts []Attempt
}

// NewManager builds a Manager. fallback may be nil, in which case an
// exhausted primary is terminal.
func NewManager(primary, fallback storage.Adapter, opts Options, log logging.Logger) *Manager {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseDelay < 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	return &Manager{
		primary:  primary,
		fallback: fallback,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// Initialize connects a backend and prepares its schema. Calling it while
// connected returns the existing adapter.
func (m *Manager) Initialize(ctx context.Context) (storage.Adapter, error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if a := m.current(); a != nil {
		return a, nil
	}
	return m.initialize(ctx)
}

// Reconnect disconnects the active adapter, clears the attempt history and
// runs the full connection procedure again.
func (m *Manager) Reconnect(ctx context.Context) (storage.Adapter, error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	_ = m.teardown(ctx)
	m.setState(Uninitialized)

	m.log.Info(ctx, "reconnecting")
	return m.initialize(ctx)
}

// Close disconnects the active adapter.
func (m *Manager) Close(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	err := m.teardown(ctx)
	m.setState(Uninitialized)
	return err
}

// Adapter returns the connected adapter or a connection error.
func (m *Manager) Adapter() (storage.Adapter, error) {
	if a := m.current(); a != nil {
		return a, nil
	}
	return nil, dberr.Connection("", "adapter", ErrNotInitialized)
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Attempts returns a copy of the connection history.
func (m *Manager) Attempts() []Attempt {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Attempt(nil), m.attempts...)
}

// ActiveBackend returns the name of the connected backend, or "".
func (m *Manager) ActiveBackend() string {
	if a := m.current(); a != nil {
		return a.Name()
	}
	return ""
}

func (m *Manager) initialize(ctx context.Context) (storage.Adapter, error) {
	m.mu.Lock()
	m.attempts = nil
	m.state = ConnectingPrimary
	m.mu.Unlock()

	err := m.connectWithRetry(ctx, m.primary)
	if err == nil {
		m.record(m.primary.Name(), true, "connected")
		return m.activate(ctx, m.primary, ConnectedPrimary)
	}

	m.record(m.primary.Name(), false, err.Error())
	m.log.Warn(ctx, "primary backend unavailable", "backend", m.primary.Name(), "error", err)

	if ctx.Err() != nil || m.fallback == nil {
		return nil, m.fail(m.primary.Name(), err)
	}

	m.setState(ConnectingFallback)
	if err := m.fallback.Connect(ctx); err != nil {
		m.record(m.fallback.Name(), false, err.Error())
		m.log.Error(ctx, "fallback backend unavailable", "backend", m.fallback.Name(), "error", err)
		return nil, m.fail(m.fallback.Name(), err)
	}
	m.record(m.fallback.Name(), true, "connected")
	m.log.Warn(ctx, "serving from fallback backend", "preferred", m.primary.Name(), "backend", m.fallback.Name())
	return m.activate(ctx, m.fallback, ConnectedFallback)
}

// connectWithRetry tries a.Connect up to MaxAttempts times, waiting
// BaseDelay*2^(n-1) after the n-th failure. Errors that are not retryable
// stop the loop early.
func (m *Manager) connectWithRetry(ctx context.Context, a storage.Adapter) error {
	attempt := 0
	return retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		attempt++
		err := a.Connect(ctx)
		if err == nil {
			return nil
		}
		m.log.Debug(ctx, "connect attempt failed", "backend", a.Name(), "attempt", attempt, "error", err)
		if dberr.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (m *Manager) backoff() retry.Backoff {
	var b retry.Backoff
	if m.opts.BaseDelay > 0 {
		b = retry.NewExponential(m.opts.BaseDelay)
	} else {
		b = retry.BackoffFunc(func() (time.Duration, bool) { return 0, false })
	}
	return retry.WithMaxRetries(uint64(m.opts.MaxAttempts-1), b)
}

func (m *Manager) activate(ctx context.Context, a storage.Adapter, state State) (storage.Adapter, error) {
	if err := a.CreateSchema(ctx); err != nil {
		_ = a.Disconnect(ctx)
		m.setState(Failed)
		m.log.Error(ctx, "schema setup failed", "backend", a.Name(), "error", err)
		if dberr.KindOf(err) == "" {
			err = dberr.Migration(a.Name(), err)
		}
		return nil, err
	}

	m.mu.Lock()
	m.active = a
	m.state = state
	m.mu.Unlock()

	m.log.Info(ctx, "backend ready", "backend", a.Name(), "state", state.String())
	return a, nil
}

func (m *Manager) fail(backend string, err error) error {
	if !dberr.Is(err, dberr.KindConnection) {
		err = dberr.Connection(backend, "connect", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Failed
	return &ConnectionError{Attempts: append([]Attempt(nil), m.attempts...), Err: err}
}

func (m *Manager) teardown(ctx context.Context) error {
	m.mu.Lock()
	a := m.active
	m.active = nil
	m.mu.Unlock()

	if a == nil {
		return nil
	}
	if err := a.Disconnect(ctx); err != nil {
		m.log.Warn(ctx, "disconnect failed", "backend", a.Name(), "error", err)
		return err
	}
	return nil
}

func (m *Manager) current() storage.Adapter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil || !m.active.IsConnected() {
		return nil
	}
	return m.active
}

func (m *Manager) record(backend string, ok bool, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, Attempt{Backend: backend, Success: ok, Message: msg, Timestamp: m.now()})
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}
