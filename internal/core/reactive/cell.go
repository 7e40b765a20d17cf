// Package reactive implements observable value cells.
//
// A Cell holds a value, versions every accepted write and notifies its
// observers synchronously in the writer's goroutine. Cells are the only
// mutable state the motion graph shares between interactions.
package reactive

import (
	"reflect"
	sc "sync"
	"sync/atomic"

	"github.com/zeusync/motion/internal/core/stream"
)

// Cell is an observable value holder.
type Cell[T any] struct {
	mu    sc.RWMutex // protects value
	value T

	version atomic.Uint64
	name    string

	equal   func(a, b T) bool
	writer  func(T)
	through func(T) // set for derived cells: writes go to the parent

	changes  *stream.Subject[T]
	onChange atomic.Pointer[func(old, new T)]
}

// Option configures a Cell.
type Option[T any] func(*Cell[T])

// WithName labels the cell for diagnostics.
func WithName[T any](name string) Option[T] {
	return func(c *Cell[T]) { c.name = name }
}

// WithEqual replaces the equality used to suppress redundant writes.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(c *Cell[T]) { c.equal = equal }
}

// WithWriter registers a sink that receives every accepted value before
// observers are notified. It is how a cell mirrors itself into a plain model
// object it does not own.
func WithWriter[T any](write func(T)) Option[T] {
	return func(c *Cell[T]) { c.writer = write }
}

// New creates a cell holding initial.
func New[T any](initial T, opts ...Option[T]) *Cell[T] {
	c := &Cell[T]{
		value:   initial,
		equal:   fastEqual[T],
		changes: stream.NewSubject[T](),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.version.Store(1)
	return c
}

// Name returns the diagnostic label, if any.
func (c *Cell[T]) Name() string { return c.name }

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set writes v and notifies observers. Writing a value equal to the current
// one does nothing.
func (c *Cell[T]) Set(v T) {
	if c.through != nil {
		c.through(v)
		return
	}
	c.store(v)
}

func (c *Cell[T]) store(v T) {
	c.mu.Lock()
	old := c.value
	if c.equal(old, v) {
		c.mu.Unlock()
		return
	}
	c.value = v
	c.mu.Unlock()
	c.version.Add(1)

	if c.writer != nil {
		c.writer(v)
	}
	if onChange := c.onChange.Load(); onChange != nil {
		(*onChange)(old, v)
	}
	c.changes.Emit(v)
}

// Version returns a counter that increases with every accepted write.
func (c *Cell[T]) Version() uint64 {
	return c.version.Load()
}

// OnChange registers a callback invoked with the previous and new value after
// every accepted write. A later registration replaces the earlier one.
func (c *Cell[T]) OnChange(fn func(old, new T)) {
	c.onChange.Store(&fn)
}

// Subscribe observes future writes only.
func (c *Cell[T]) Subscribe(observer func(T)) stream.Subscription {
	return c.changes.Subscribe(observer)
}

// Observers returns the number of active subscriptions on future writes,
// including the ones held by Stream subscribers.
func (c *Cell[T]) Observers() int {
	return c.changes.Observers()
}

// Stream returns a stream that emits the current value on subscribe and then
// every accepted write.
func (c *Cell[T]) Stream() stream.Stream[T] {
	return stream.New(func(emit stream.Observer[T]) func() {
		emit(c.Get())
		sub := c.changes.Subscribe(emit)
		return sub.Unsubscribe
	})
}

func fastEqual[T any](a, b T) bool {
	va, vb := any(a), any(b)
	if va == nil && vb == nil {
		return true
	}
	if va == nil || vb == nil {
		return false
	}

	typeA := reflect.TypeOf(va)
	if typeA != reflect.TypeOf(vb) {
		return false
	}

	switch typeA.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(va).Int() == reflect.ValueOf(vb).Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(va).Uint() == reflect.ValueOf(vb).Uint()
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(va).Float() == reflect.ValueOf(vb).Float()
	case reflect.String:
		return reflect.ValueOf(va).String() == reflect.ValueOf(vb).String()
	case reflect.Bool:
		return reflect.ValueOf(va).Bool() == reflect.ValueOf(vb).Bool()
	default:
		return reflect.DeepEqual(va, vb)
	}
}
