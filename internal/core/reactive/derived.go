package reactive

// Derive builds a child cell projecting part of parent, e.g. the x coordinate
// of a center point. Reads return get(parent). Writes to the child rewrite the
// parent with set(parent, v), and every parent change is reflected into the
// child. The child is built eagerly and stays subscribed to the parent for
// its whole life.
func Derive[P, C any](parent *Cell[P], get func(P) C, set func(P, C) P, opts ...Option[C]) *Cell[C] {
	child := New(get(parent.Get()), opts...)
	child.through = func(v C) {
		parent.Set(set(parent.Get(), v))
	}
	parent.Subscribe(func(p P) {
		child.store(get(p))
	})
	return child
}
