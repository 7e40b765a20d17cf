package spring

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/zeusync/motion/internal/core/stream"
	"github.com/zeusync/motion/internal/core/systems/physics"
)

// HarmonicaSource integrates springs with harmonica's closed-form damped
// oscillator, stepping once per frame emitted by frames.
//
// Tension and friction are mapped onto a unit mass: the angular frequency is
// sqrt(tension) and the damping ratio friction / (2 * sqrt(tension)). A
// non-positive tension freezes the spring; negative friction is treated as
// zero.
func HarmonicaSource[T physics.Vector[T]](frames stream.Stream[time.Duration]) Source[T] {
	return func(s *Spring[T]) stream.Stream[T] {
		return stream.New(func(emit stream.Observer[T]) func() {
			sim := &simulation[T]{spring: s, emit: emit}
			return sim.connect(frames)
		})
	}
}

// coefficients are harmonica's per-step linear factors. They are obtained by
// stepping unit displacement and unit velocity, which lets any Vector be
// integrated with linear combinations.
type coefficients struct {
	posPos, posVel float64
	velPos, velVel float64
}

type coefficientKey struct {
	dt, tension, friction float64
}

func newCoefficients(key coefficientKey) coefficients {
	var omega, zeta float64
	if key.tension > 0 {
		omega = math.Sqrt(key.tension)
	}
	if omega > 0 && key.friction > 0 {
		zeta = key.friction / (2 * omega)
	}

	h := harmonica.NewSpring(key.dt, omega, zeta)
	var c coefficients
	c.posPos, c.velPos = h.Update(1, 0, 0)
	c.posVel, c.velVel = h.Update(0, 1, 0)
	return c
}

type simulation[T physics.Vector[T]] struct {
	spring *Spring[T]
	emit   stream.Observer[T]

	position    T
	velocity    T
	destination T
	active      bool

	key    coefficientKey
	coeffs coefficients
	cached bool
}

func (sim *simulation[T]) connect(frames stream.Stream[time.Duration]) func() {
	s := sim.spring
	sim.position = s.Initial.Get()
	sim.destination = s.Destination.Get()
	if physics.Distance(sim.position, sim.destination) >= s.Threshold {
		sim.start()
	}

	subs := []stream.Subscription{
		s.Destination.Subscribe(sim.retarget),
		frames.Subscribe(sim.step),
	}

	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
		sim.active = false
		s.State.Set(AtRest)
	}
}

func (sim *simulation[T]) start() {
	sim.velocity = sim.spring.InitialVelocity.Get()
	sim.active = true
	sim.spring.State.Set(Active)
}

// retarget keeps position and velocity; only a spring at rest picks up the
// initial velocity.
func (sim *simulation[T]) retarget(destination T) {
	if physics.Distance(destination, sim.destination) == 0 {
		return
	}
	sim.destination = destination
	if !sim.active {
		sim.start()
	}
}

func (sim *simulation[T]) step(dt time.Duration) {
	s := sim.spring
	if !sim.active || dt <= 0 || !s.Enabled.Get() {
		return
	}

	c := sim.coefficientsFor(dt.Seconds(), s.Tension.Get(), s.Friction.Get())

	displacement := sim.position.Sub(sim.destination)
	sim.position = sim.destination.Add(physics.Combine(c.posPos, displacement, c.posVel, sim.velocity))
	sim.velocity = physics.Combine(c.velPos, displacement, c.velVel, sim.velocity)

	if physics.Distance(sim.position, sim.destination) < s.Threshold && sim.velocity.Norm() < s.Threshold {
		var zero T
		sim.position = sim.destination
		sim.velocity = zero
		sim.active = false
		sim.emit(sim.position)
		s.State.Set(AtRest)
		return
	}

	sim.emit(sim.position)
}

func (sim *simulation[T]) coefficientsFor(dt, tension, friction float64) coefficients {
	if math.IsNaN(friction) {
		friction = 0
	}
	key := coefficientKey{dt: dt, tension: tension, friction: friction}
	if !sim.cached || key != sim.key {
		sim.key = key
		sim.coeffs = newCoefficients(key)
		sim.cached = true
	}
	return sim.coeffs
}
