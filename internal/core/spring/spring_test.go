package spring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/stream"
	"github.com/zeusync/motion/internal/core/systems/physics"
)

const frame = time.Second / 60

type rig[T physics.Vector[T]] struct {
	frames      *stream.Subject[time.Duration]
	destination *reactive.Cell[T]
	initial     *reactive.Cell[T]
	spring      *Spring[T]
}

func newRig[T physics.Vector[T]](from, to T) *rig[T] {
	frames := stream.NewSubject[time.Duration]()
	destination := reactive.New(to)
	initial := reactive.New(from)
	return &rig[T]{
		frames:      frames,
		destination: destination,
		initial:     initial,
		spring:      New(destination, initial, DefaultThreshold, HarmonicaSource[T](frames)),
	}
}

func (r *rig[T]) tick(n int) {
	for i := 0; i < n; i++ {
		r.frames.Emit(frame)
	}
}

func maxStep(values []physics.Scalar, from physics.Scalar) float64 {
	prev, largest := from, 0.0
	for _, v := range values {
		largest = math.Max(largest, math.Abs(float64(v-prev)))
		prev = v
	}
	return largest
}

func TestSpring_Defaults(t *testing.T) {
	r := newRig[physics.Scalar](0, 1)
	require.Equal(t, DefaultTension, r.spring.Tension.Get())
	require.Equal(t, DefaultFriction, r.spring.Friction.Get())
	require.Equal(t, physics.Scalar(0), r.spring.InitialVelocity.Get())
	require.Equal(t, DefaultThreshold, r.spring.Threshold)
	require.Equal(t, AtRest, r.spring.State.Get())
	require.Same(t, r.spring.ValueStream(), r.spring.ValueStream())

	s := New(r.destination, r.initial, -1, HarmonicaSource[physics.Scalar](r.frames))
	require.Equal(t, DefaultThreshold, s.Threshold)
}

func TestSpring_ConvergesAndSettles(t *testing.T) {
	r := newRig[physics.Scalar](0, 1)
	rec := stream.Record(r.spring.ValueStream())
	require.Equal(t, Active, r.spring.State.Get())
	require.Equal(t, 0, rec.Len())

	r.tick(180)

	values := rec.Values()
	require.NotEmpty(t, values)
	last, _ := rec.Last()
	require.Equal(t, physics.Scalar(1), last)
	require.Equal(t, AtRest, r.spring.State.Get())

	for _, v := range values {
		require.GreaterOrEqual(t, float64(v), 0.0)
		require.LessOrEqual(t, float64(v), 1.05)
	}

	// nothing more is emitted once settled
	n := rec.Len()
	r.tick(10)
	require.Equal(t, n, rec.Len())
}

func TestSpring_RetargetKeepsMomentum(t *testing.T) {
	r := newRig[physics.Scalar](0, 1)
	rec := stream.Record(r.spring.ValueStream())
	r.tick(5)
	before := rec.Values()
	steady := maxStep(before, 0)

	r.destination.Set(0)
	r.tick(1)
	after := rec.Values()
	flip := after[len(after)-1]
	require.LessOrEqual(t, math.Abs(float64(flip-before[len(before)-1])), steady)

	// a restart from rest at the same position would already be heading back
	fresh := newRig[physics.Scalar](before[len(before)-1], 0)
	freshRec := stream.Record(fresh.spring.ValueStream())
	fresh.tick(1)
	restarted, _ := freshRec.Last()
	require.Greater(t, float64(flip), float64(restarted))

	r.tick(240)
	last, _ := rec.Last()
	require.Equal(t, physics.Scalar(0), last)
}

func TestSpring_SameDestinationIsNoop(t *testing.T) {
	a := newRig[physics.Scalar](0, 1)
	b := newRig[physics.Scalar](0, 1)
	recA := stream.Record(a.spring.ValueStream())
	recB := stream.Record(b.spring.ValueStream())

	for i := 0; i < 30; i++ {
		a.destination.Set(1)
		a.tick(1)
		b.tick(1)
	}
	require.Equal(t, recB.Values(), recA.Values())
}

func TestSpring_LiveParameters(t *testing.T) {
	t.Run("Tension change applies on the next frame", func(t *testing.T) {
		stiff := newRig[physics.Scalar](0, 1)
		soft := newRig[physics.Scalar](0, 1)
		stiffRec := stream.Record(stiff.spring.ValueStream())
		softRec := stream.Record(soft.spring.ValueStream())

		soft.spring.Tension.Set(50)
		stiff.tick(3)
		soft.tick(3)

		a, _ := stiffRec.Last()
		b, _ := softRec.Last()
		require.Greater(t, float64(a), float64(b))
	})

	t.Run("Non-positive tension freezes", func(t *testing.T) {
		r := newRig[physics.Scalar](0.25, 1)
		r.spring.Tension.Set(0)
		rec := stream.Record(r.spring.ValueStream())
		r.tick(10)
		for _, v := range rec.Values() {
			require.Equal(t, physics.Scalar(0.25), v)
		}
		require.Equal(t, Active, r.spring.State.Get())
	})

	t.Run("Initial velocity is used when starting from rest", func(t *testing.T) {
		plain := newRig[physics.Scalar](0, 0)
		kicked := newRig[physics.Scalar](0, 0)
		kicked.spring.InitialVelocity.Set(-5)
		plainRec := stream.Record(plain.spring.ValueStream())
		kickedRec := stream.Record(kicked.spring.ValueStream())
		require.Equal(t, AtRest, kicked.spring.State.Get())

		plain.destination.Set(1)
		kicked.destination.Set(1)
		plain.tick(1)
		kicked.tick(1)

		p, _ := plainRec.Last()
		k, _ := kickedRec.Last()
		require.Less(t, float64(k), float64(p))
	})

	t.Run("Disabled spring holds its value", func(t *testing.T) {
		r := newRig[physics.Scalar](0, 1)
		rec := stream.Record(r.spring.ValueStream())
		r.tick(3)
		r.spring.Enabled.Set(false)
		n := rec.Len()
		r.tick(20)
		require.Equal(t, n, rec.Len())

		r.spring.Enabled.Set(true)
		r.tick(180)
		last, _ := rec.Last()
		require.Equal(t, physics.Scalar(1), last)
	})
}

func TestSpring_Vec2(t *testing.T) {
	r := newRig(physics.Vec2{}, physics.Vec2{Xv: 100, Yv: -50})
	rec := stream.Record(r.spring.ValueStream())
	r.tick(300)
	last, ok := rec.Last()
	require.True(t, ok)
	require.Equal(t, physics.Vec2{Xv: 100, Yv: -50}, last)
}

func TestSpring_UnsubscribeReleasesClock(t *testing.T) {
	r := newRig[physics.Scalar](0, 1)
	rec := stream.Record(r.spring.ValueStream())
	require.Equal(t, 1, r.frames.Observers())
	require.Equal(t, 1, r.destination.Observers())

	rec.Stop()
	require.Equal(t, 0, r.frames.Observers())
	require.Equal(t, 0, r.destination.Observers())
	require.Equal(t, AtRest, r.spring.State.Get())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "active", Active.String())
	require.Equal(t, "at_rest", AtRest.String())
	require.Equal(t, "state(9)", State(9).String())
}
