package transition

import "github.com/zeusync/motion/internal/core/stream"

// Destinations emits back for every Backward and fore for every Forward seen
// on directions, starting with the first one. Consecutive equal directions are
// re-emitted; writing an unchanged destination is a no-op downstream.
func Destinations[T any](directions stream.Stream[Direction], back, fore T) stream.Stream[T] {
	return stream.Rewrite(directions, map[Direction]T{
		Backward: back,
		Forward:  fore,
	})
}
