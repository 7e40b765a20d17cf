// Package stream provides lazy, push-based value streams and the operators
// used to wire reactive cells together.
//
// Delivery is synchronous: an emission runs every observer in the caller's
// goroutine before returning. Streams built with New are cold and run their
// producer once per subscriber; a Subject is hot and multicasts.
package stream

import (
	"sync"

	"github.com/google/uuid"
)

// Observer receives emitted values.
type Observer[T any] func(T)

// Stream is a subscribable sequence of values.
type Stream[T any] interface {
	// Subscribe starts delivery to observer and returns a handle that stops it.
	Subscribe(observer Observer[T]) Subscription
}

// Subscription represents a registered observer.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// Active reports whether values are still delivered.
	Active() bool
	// Unsubscribe stops delivery. Multiple calls are safe.
	Unsubscribe()
}

type subscription struct {
	id     string
	mu     sync.Mutex
	active bool
	cancel func()
}

func newSubscription() *subscription {
	return &subscription{id: uuid.NewString(), active: true}
}

func (s *subscription) ID() string { return s.id }

func (s *subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *subscription) Unsubscribe() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (s *subscription) setCancel(cancel func()) {
	s.mu.Lock()
	if s.active {
		s.cancel = cancel
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	// Unsubscribed while the producer was still connecting.
	if cancel != nil {
		cancel()
	}
}

// Func adapts a subscribe function into a Stream.
type Func[T any] func(observer Observer[T]) Subscription

func (f Func[T]) Subscribe(observer Observer[T]) Subscription { return f(observer) }

type producer[T any] struct {
	connect func(emit Observer[T]) (disconnect func())
}

// New creates a cold stream. connect runs for every subscriber, receives the
// subscriber's emit function and returns a function releasing whatever it
// acquired. Emissions after Unsubscribe are dropped.
func New[T any](connect func(emit Observer[T]) (disconnect func())) Stream[T] {
	return &producer[T]{connect: connect}
}

func (p *producer[T]) Subscribe(observer Observer[T]) Subscription {
	sub := newSubscription()
	disconnect := p.connect(func(v T) {
		if sub.Active() {
			observer(v)
		}
	})
	sub.setCancel(disconnect)
	return sub
}

// Of emits values to each subscriber, in order, at subscribe time.
func Of[T any](values ...T) Stream[T] {
	return New(func(emit Observer[T]) func() {
		for _, v := range values {
			emit(v)
		}
		return nil
	})
}

// Subject is a hot stream: every Emit is delivered to the observers that are
// subscribed at that moment, in subscription order.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []subjectObserver[T]
}

type subjectObserver[T any] struct {
	sub      *subscription
	observer Observer[T]
}

var _ Stream[int] = (*Subject[int])(nil)

// NewSubject creates an empty Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

func (s *Subject[T]) Subscribe(observer Observer[T]) Subscription {
	sub := newSubscription()
	s.mu.Lock()
	s.observers = append(s.observers, subjectObserver[T]{sub: sub, observer: observer})
	s.mu.Unlock()
	sub.setCancel(func() { s.remove(sub.id) })
	return sub
}

// Emit delivers v synchronously.
func (s *Subject[T]) Emit(v T) {
	s.mu.Lock()
	snapshot := make([]subjectObserver[T], len(s.observers))
	copy(snapshot, s.observers)
	s.mu.Unlock()

	for _, o := range snapshot {
		if o.sub.Active() {
			o.observer(v)
		}
	}
}

// Observers returns the number of active observers.
func (s *Subject[T]) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *Subject[T]) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o.sub.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}
