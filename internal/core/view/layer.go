// Package view exposes the animatable properties of a layer as reactive
// cells.
package view

import (
	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/runtime"
	"github.com/zeusync/motion/internal/core/systems/physics"
)

// Layer is the plain model a renderer draws from.
type Layer struct {
	Alpha       float64
	Center      physics.Vec2
	Interactive bool
}

// Reactive wraps a Layer. Every cell writes through to the layer.
type Reactive struct {
	Layer *Layer

	Alpha       *reactive.Cell[physics.Scalar]
	Center      *reactive.Cell[physics.Vec2]
	CenterX     *reactive.Cell[physics.Scalar]
	CenterY     *reactive.Cell[physics.Scalar]
	Interactive *reactive.Cell[bool]

	// borrowed; the runtime outlives the wrappers it caches
	runtime *runtime.Runtime
}

type layerKey struct{ layer *Layer }

// For returns the wrapper of layer in rt, creating it on first use. Bindings
// installed by different interactions on the same layer then share cells.
func For(rt *runtime.Runtime, layer *Layer) *Reactive {
	return rt.Lookup(layerKey{layer}, func() any {
		return newReactive(rt, layer)
	}).(*Reactive)
}

func newReactive(rt *runtime.Runtime, layer *Layer) *Reactive {
	r := &Reactive{Layer: layer, runtime: rt}

	r.Alpha = reactive.New(physics.Scalar(layer.Alpha),
		reactive.WithName[physics.Scalar]("alpha"),
		reactive.WithWriter(func(v physics.Scalar) { layer.Alpha = float64(v) }),
	)
	r.Center = reactive.New(layer.Center,
		reactive.WithName[physics.Vec2]("center"),
		reactive.WithWriter(func(v physics.Vec2) { layer.Center = v }),
	)
	r.CenterX = reactive.Derive(r.Center,
		func(p physics.Vec2) physics.Scalar { return physics.Scalar(p.Xv) },
		func(p physics.Vec2, x physics.Scalar) physics.Vec2 { p.Xv = float64(x); return p },
		reactive.WithName[physics.Scalar]("center.x"),
	)
	r.CenterY = reactive.Derive(r.Center,
		func(p physics.Vec2) physics.Scalar { return physics.Scalar(p.Yv) },
		func(p physics.Vec2, y physics.Scalar) physics.Vec2 { p.Yv = float64(y); return p },
		reactive.WithName[physics.Scalar]("center.y"),
	)
	r.Interactive = reactive.New(layer.Interactive,
		reactive.WithName[bool]("interactive"),
		reactive.WithWriter(func(v bool) { layer.Interactive = v }),
	)
	return r
}

// Runtime returns the runtime this wrapper was created for.
func (r *Reactive) Runtime() *runtime.Runtime {
	return r.runtime
}
