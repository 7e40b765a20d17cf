// Package spring simulates a damped spring pulling a value toward a live
// destination.
//
// A Spring only describes the simulation: its destination, its starting value
// and its tunable parameters, each held in a reactive cell. A Source turns
// that description into a value stream; HarmonicaSource integrates on every
// frame of a clock stream.
package spring

import (
	"fmt"

	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/stream"
	"github.com/zeusync/motion/internal/core/systems/physics"
)

const (
	// DefaultTension and DefaultFriction give a slightly under-damped spring
	// that settles in roughly half a second.
	DefaultTension  = 342.0
	DefaultFriction = 30.0

	// DefaultThreshold is the distance and speed under which a value is
	// considered settled.
	DefaultThreshold = 0.01
)

// State reports whether the simulation is moving.
type State uint8

const (
	AtRest State = iota
	Active
)

func (s State) String() string {
	switch s {
	case AtRest:
		return "at_rest"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Source creates the value stream of a spring.
type Source[T physics.Vector[T]] func(*Spring[T]) stream.Stream[T]

// Spring pulls a value toward Destination.
//
// Tension, Friction and InitialVelocity are live: writes affect a running
// simulation on its next frame. Changing Destination retargets a running
// simulation without touching its position or velocity.
type Spring[T physics.Vector[T]] struct {
	// Destination is the value the spring is pulled toward.
	Destination *reactive.Cell[T]
	// Initial is read once when the value stream is subscribed.
	Initial *reactive.Cell[T]

	Tension  *reactive.Cell[float64]
	Friction *reactive.Cell[float64]
	// InitialVelocity is applied whenever the spring starts from rest.
	InitialVelocity *reactive.Cell[T]

	// Enabled pauses integration when false.
	Enabled *reactive.Cell[bool]
	// State is maintained by the source while the value stream is subscribed.
	State *reactive.Cell[State]

	// Threshold is the settle distance for both position and velocity.
	Threshold float64

	source      Source[T]
	valueStream stream.Stream[T]
}

// New creates a spring bound to destination, starting from the value held by
// initial. A non-positive threshold falls back to DefaultThreshold.
func New[T physics.Vector[T]](destination, initial *reactive.Cell[T], threshold float64, source Source[T]) *Spring[T] {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	var zero T
	return &Spring[T]{
		Destination:     destination,
		Initial:         initial,
		Tension:         reactive.New(DefaultTension, reactive.WithName[float64]("tension")),
		Friction:        reactive.New(DefaultFriction, reactive.WithName[float64]("friction")),
		InitialVelocity: reactive.New(zero, reactive.WithName[T]("initial_velocity")),
		Enabled:         reactive.New(true, reactive.WithName[bool]("enabled")),
		State:           reactive.New(AtRest, reactive.WithName[State]("state")),
		Threshold:       threshold,
		source:          source,
	}
}

// ValueStream returns the simulated values. The stream is created by the
// spring's source on first use and shared afterwards.
func (s *Spring[T]) ValueStream() stream.Stream[T] {
	if s.valueStream == nil {
		s.valueStream = s.source(s)
	}
	return s.valueStream
}
