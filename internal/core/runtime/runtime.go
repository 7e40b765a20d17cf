// Package runtime owns the persistent bindings of a motion graph and the
// frame clock that drives its simulations.
//
// All cell writes, stream emissions and frame steps are expected to happen on
// one goroutine: either the caller's, when ticking manually with Tick, or the
// Run loop's, which also executes closures queued with Do.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeusync/motion/internal/core/observability/log"
	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/stream"
)

// Runtime errors
var (
	ErrClosed       = errors.New("runtime is closed")
	ErrAlreadyAdded = errors.New("interaction already added")
)

// DefaultFrameInterval is the Run loop period when none is configured.
const DefaultFrameInterval = time.Second / 60

// Interaction installs its bindings into a runtime.
type Interaction interface {
	Connect(rt *Runtime)
}

// Runtime holds write bindings from streams into cells.
type Runtime struct {
	mu           sync.Mutex
	bindings     map[string]stream.Subscription
	interactions map[Interaction]struct{}
	values       map[any]any
	closed       bool

	frames        *stream.Subject[time.Duration]
	frameInterval time.Duration
	maxFrame      time.Duration

	commands chan func()
	done     chan struct{}

	logger log.Log
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for binding and lifecycle events.
func WithLogger(logger log.Log) Option {
	return func(rt *Runtime) { rt.logger = logger }
}

// WithFrameInterval sets the Run loop period.
func WithFrameInterval(d time.Duration) Option {
	return func(rt *Runtime) {
		if d > 0 {
			rt.frameInterval = d
		}
	}
}

// WithFrameRate sets the Run loop period from frames per second.
func WithFrameRate(fps int) Option {
	return func(rt *Runtime) {
		if fps > 0 {
			rt.frameInterval = time.Second / time.Duration(fps)
		}
	}
}

// New creates an empty runtime.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		bindings:      make(map[string]stream.Subscription),
		interactions:  make(map[Interaction]struct{}),
		values:        make(map[any]any),
		frames:        stream.NewSubject[time.Duration](),
		frameInterval: DefaultFrameInterval,
		commands:      make(chan func(), 64),
		done:          make(chan struct{}),
		logger:        log.Provide(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	// a stalled loop must not turn into one huge simulation step
	rt.maxFrame = 4 * rt.frameInterval
	return rt
}

// Write installs a persistent binding forwarding every emission of s as a
// write into cell. The binding lives until the runtime is closed.
func Write[T any](rt *Runtime, s stream.Stream[T], into *reactive.Cell[T]) {
	rt.mu.Lock()
	closed := rt.closed
	rt.mu.Unlock()
	if closed {
		rt.logger.Warn("write binding ignored on closed runtime", log.String("cell", into.Name()))
		return
	}

	sub := s.Subscribe(into.Set)

	rt.mu.Lock()
	rt.bindings[sub.ID()] = sub
	count := len(rt.bindings)
	rt.mu.Unlock()

	rt.logger.Debug("write binding added",
		log.String("binding", sub.ID()),
		log.String("cell", into.Name()),
		log.Int("bindings", count),
	)
}

// Add connects interaction. Each interaction instance is connected at most
// once per runtime.
func (rt *Runtime) Add(interaction Interaction) error {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return ErrClosed
	}
	if _, exists := rt.interactions[interaction]; exists {
		rt.mu.Unlock()
		return fmt.Errorf("%T: %w", interaction, ErrAlreadyAdded)
	}
	rt.interactions[interaction] = struct{}{}
	rt.mu.Unlock()

	interaction.Connect(rt)
	rt.logger.Debug("interaction connected", log.String("interaction", fmt.Sprintf("%T", interaction)))
	return nil
}

// Lookup returns the value memoized under key, creating it with create on
// first use. It backs per-runtime caches such as reactive layer wrappers.
func (rt *Runtime) Lookup(key any, create func() any) any {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if v, ok := rt.values[key]; ok {
		return v
	}
	v := create()
	rt.values[key] = v
	return v
}

// Bindings returns the number of live write bindings.
func (rt *Runtime) Bindings() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.bindings)
}

// Frames emits the elapsed time of every frame.
func (rt *Runtime) Frames() stream.Stream[time.Duration] {
	return rt.frames
}

// FrameInterval returns the configured Run loop period.
func (rt *Runtime) FrameInterval() time.Duration {
	return rt.frameInterval
}

// Tick advances every simulation by dt, synchronously.
func (rt *Runtime) Tick(dt time.Duration) {
	rt.frames.Emit(dt)
}

// Do queues fn for execution on the Run loop goroutine. It blocks until the
// closure is queued, ctx is done or the runtime is closed.
func (rt *Runtime) Do(ctx context.Context, fn func()) error {
	select {
	case <-rt.done:
		return ErrClosed
	default:
	}
	select {
	case rt.commands <- fn:
		return nil
	case <-rt.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks the frame clock every frame interval and executes queued closures
// until ctx is done or the runtime is closed.
func (rt *Runtime) Run(ctx context.Context) error {
	ticker := time.NewTicker(rt.frameInterval)
	defer ticker.Stop()

	rt.logger.Info("runtime loop started", log.Duration("frame_interval", rt.frameInterval))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			rt.logger.Info("runtime loop stopped")
			return nil
		case <-rt.done:
			return ErrClosed
		case fn := <-rt.commands:
			fn()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > rt.maxFrame {
				dt = rt.maxFrame
			}
			rt.Tick(dt)
		}
	}
}

// Close tears down every binding. Further calls do nothing.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return nil
	}
	rt.closed = true
	bindings := rt.bindings
	rt.bindings = make(map[string]stream.Subscription)
	rt.mu.Unlock()

	close(rt.done)
	for _, sub := range bindings {
		sub.Unsubscribe()
	}
	rt.logger.Info("runtime closed", log.Int("bindings", len(bindings)))
	return nil
}
