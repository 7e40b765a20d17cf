package stream

import "sync"

// Map transforms every value of upstream with fn.
func Map[T, R any](upstream Stream[T], fn func(T) R) Stream[R] {
	return New(func(emit Observer[R]) func() {
		sub := upstream.Subscribe(func(v T) { emit(fn(v)) })
		return sub.Unsubscribe
	})
}

// Filter forwards only values satisfying pred.
func Filter[T any](upstream Stream[T], pred func(T) bool) Stream[T] {
	return New(func(emit Observer[T]) func() {
		sub := upstream.Subscribe(func(v T) {
			if pred(v) {
				emit(v)
			}
		})
		return sub.Unsubscribe
	})
}

// Dedupe drops values equal to the previously forwarded one.
func Dedupe[T comparable](upstream Stream[T]) Stream[T] {
	return DedupeFunc(upstream, func(a, b T) bool { return a == b })
}

// DedupeFunc is Dedupe with a caller supplied equality.
func DedupeFunc[T any](upstream Stream[T], equal func(a, b T) bool) Stream[T] {
	return New(func(emit Observer[T]) func() {
		var (
			last T
			seen bool
		)
		sub := upstream.Subscribe(func(v T) {
			if seen && equal(last, v) {
				return
			}
			last, seen = v, true
			emit(v)
		})
		return sub.Unsubscribe
	})
}

// Rewrite switches on discrete upstream values: each value found in values is
// replaced by its mapped constant, anything else is dropped.
func Rewrite[K comparable, V any](upstream Stream[K], values map[K]V) Stream[V] {
	table := make(map[K]V, len(values))
	for k, v := range values {
		table[k] = v
	}
	return New(func(emit Observer[V]) func() {
		sub := upstream.Subscribe(func(k K) {
			if v, ok := table[k]; ok {
				emit(v)
			}
		})
		return sub.Unsubscribe
	})
}

// Merge interleaves emissions of all upstreams in arrival order.
func Merge[T any](upstreams ...Stream[T]) Stream[T] {
	return New(func(emit Observer[T]) func() {
		subs := make([]Subscription, 0, len(upstreams))
		for _, up := range upstreams {
			subs = append(subs, up.Subscribe(emit))
		}
		return func() {
			for _, s := range subs {
				s.Unsubscribe()
			}
		}
	})
}

// CombineLatest emits fn(a, b) whenever either side emits, once both have
// produced at least one value.
func CombineLatest[A, B, R any](a Stream[A], b Stream[B], fn func(A, B) R) Stream[R] {
	return New(func(emit Observer[R]) func() {
		var (
			lastA A
			lastB B
			haveA bool
			haveB bool
		)
		subA := a.Subscribe(func(v A) {
			lastA, haveA = v, true
			if haveB {
				emit(fn(lastA, lastB))
			}
		})
		subB := b.Subscribe(func(v B) {
			lastB, haveB = v, true
			if haveA {
				emit(fn(lastA, lastB))
			}
		})
		return func() {
			subA.Unsubscribe()
			subB.Unsubscribe()
		}
	})
}

// Recorder collects emissions of a stream. It is mostly useful in tests and
// diagnostics.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
	sub    Subscription
}

// Record subscribes to upstream and keeps every value it emits.
func Record[T any](upstream Stream[T]) *Recorder[T] {
	r := &Recorder[T]{}
	r.sub = upstream.Subscribe(func(v T) {
		r.mu.Lock()
		r.values = append(r.values, v)
		r.mu.Unlock()
	})
	return r
}

// Values returns a copy of everything recorded so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Last returns the most recent value, if any.
func (r *Recorder[T]) Last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.values) == 0 {
		return zero, false
	}
	return r.values[len(r.values)-1], true
}

// Len returns the number of recorded values.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Reset forgets recorded values.
func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	r.values = nil
	r.mu.Unlock()
}

// Stop unsubscribes from upstream.
func (r *Recorder[T]) Stop() {
	r.sub.Unsubscribe()
}
