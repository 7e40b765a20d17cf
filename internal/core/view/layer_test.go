package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/motion/internal/core/observability/log"
	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/runtime"
	"github.com/zeusync/motion/internal/core/spring"
	"github.com/zeusync/motion/internal/core/systems/physics"
	"github.com/zeusync/motion/internal/core/transition"
)

func TestFor_CachesPerLayer(t *testing.T) {
	rt := runtime.New(runtime.WithLogger(log.Nop()))
	a, b := &Layer{}, &Layer{}

	require.Same(t, For(rt, a), For(rt, a))
	require.NotSame(t, For(rt, a), For(rt, b))
	require.Same(t, rt, For(rt, a).Runtime())
}

func TestReactive_WritesThrough(t *testing.T) {
	rt := runtime.New(runtime.WithLogger(log.Nop()))
	layer := &Layer{Alpha: 1, Center: physics.Vec2{Xv: 10, Yv: 20}}
	r := For(rt, layer)

	require.Equal(t, physics.Scalar(1), r.Alpha.Get())
	require.Equal(t, physics.Scalar(10), r.CenterX.Get())

	r.Alpha.Set(0.25)
	require.Equal(t, 0.25, layer.Alpha)

	r.CenterY.Set(50)
	require.Equal(t, physics.Vec2{Xv: 10, Yv: 50}, layer.Center)
	require.Equal(t, physics.Vec2{Xv: 10, Yv: 50}, r.Center.Get())

	r.Center.Set(physics.Vec2{Xv: 1, Yv: 2})
	require.Equal(t, physics.Scalar(1), r.CenterX.Get())
	require.Equal(t, physics.Scalar(2), r.CenterY.Get())

	r.Interactive.Set(true)
	require.True(t, layer.Interactive)
}

func TestReactive_TransitionSlidesLayerIn(t *testing.T) {
	rt := runtime.New(runtime.WithLogger(log.Nop()))
	layer := &Layer{Alpha: 1, Center: physics.Vec2{Xv: 160, Yv: 240}}
	r := For(rt, layer)
	direction := reactive.New(transition.Forward)

	slide := transition.NewSpring(r.CenterY, 720, 240, direction,
		spring.HarmonicaSource[physics.Scalar](rt.Frames()))
	fade := transition.NewSpring(r.Alpha, 0, 1, direction,
		spring.HarmonicaSource[physics.Scalar](rt.Frames()))

	require.Equal(t, 720.0, layer.Center.Yv)
	require.Equal(t, 0.0, layer.Alpha)

	require.NoError(t, rt.Add(slide))
	require.NoError(t, rt.Add(fade))
	for i := 0; i < 240; i++ {
		rt.Tick(time.Second / 60)
	}

	require.Equal(t, physics.Vec2{Xv: 160, Yv: 240}, layer.Center)
	require.Equal(t, 1.0, layer.Alpha)
}
