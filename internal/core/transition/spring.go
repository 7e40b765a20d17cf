package transition

import (
	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/runtime"
	"github.com/zeusync/motion/internal/core/spring"
	"github.com/zeusync/motion/internal/core/stream"
	"github.com/zeusync/motion/internal/core/systems/physics"
)

// DefaultThreshold is the settle distance used unless WithThreshold is given.
const DefaultThreshold = spring.DefaultThreshold

// State of a Spring interaction.
type State uint8

const (
	Constructed State = iota
	Bound
)

func (s State) String() string {
	if s == Bound {
		return "bound"
	}
	return "constructed"
}

var _ runtime.Interaction = (*Spring[physics.Scalar])(nil)

// Spring attaches a property to a destination on either side of a transition
// using a spring.
type Spring[T physics.Vector[T]] struct {
	// Property is written by ValueStream once connected.
	Property *reactive.Cell[T]

	// Spring governs the motion.
	Spring *spring.Spring[T]
	// ValueStream emits spring values.
	ValueStream stream.Stream[T]

	// Destination is written by DestinationStream once connected.
	Destination *reactive.Cell[T]
	// DestinationStream emits the destination matching each direction.
	DestinationStream stream.Stream[T]

	// Tension, Friction and InitialVelocity are the spring's own cells.
	Tension         *reactive.Cell[float64]
	Friction        *reactive.Cell[float64]
	InitialVelocity *reactive.Cell[T]

	state State
}

type options struct {
	threshold float64
}

// Option configures a Spring.
type Option func(*options)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(o *options) { o.threshold = threshold }
}

// NewSpring builds the interaction and snaps property to the opposite of the
// destination selected by the current direction, so that connecting it
// always animates into place.
//
// back and fore are the destinations for Backward and Forward. source creates
// the spring's value stream.
func NewSpring[T physics.Vector[T]](
	property *reactive.Cell[T],
	back, fore T,
	direction *reactive.Cell[Direction],
	source spring.Source[T],
	opts ...Option,
) *Spring[T] {
	o := options{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	destination := reactive.New(fore, reactive.WithName[T]("destination"))
	s := spring.New(destination, property, o.threshold, source)

	ts := &Spring[T]{
		Property:          property,
		Spring:            s,
		Destination:       destination,
		Tension:           s.Tension,
		Friction:          s.Friction,
		InitialVelocity:   s.InitialVelocity,
		DestinationStream: Destinations(direction.Stream(), back, fore),
		ValueStream:       s.ValueStream(),
	}

	if direction.Get() == Forward {
		property.Set(back)
	} else {
		property.Set(fore)
	}

	return ts
}

// Connect binds the destination stream before the value stream, so the
// spring starts with the destination of the current direction.
func (ts *Spring[T]) Connect(rt *runtime.Runtime) {
	runtime.Write(rt, ts.DestinationStream, ts.Destination)
	runtime.Write(rt, ts.ValueStream, ts.Property)
	ts.state = Bound
}

// State reports whether Connect has been called.
func (ts *Spring[T]) State() State {
	return ts.state
}
