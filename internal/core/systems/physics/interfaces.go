package physics

// Lightweight vector abstractions for animated values.
// Springs only need an additive identity and linear combination, so the
// constraint stays small and every implementation is a plain value type.

// Vector is the constraint satisfied by every animatable value type.
// The Go zero value of T is its additive identity.
type Vector[T any] interface {
	Add(T) T
	Sub(T) T
	Scale(float64) T
	Norm() float64
}

// Vector2 represents a 2D vector.
type Vector2 interface {
	X() float64
	Y() float64
}

// Vector3 represents a 3D vector.
type Vector3 interface {
	X() float64
	Y() float64
	Z() float64
}

// Combine returns a*x + b*y.
func Combine[T Vector[T]](a float64, x T, b float64, y T) T {
	return x.Scale(a).Add(y.Scale(b))
}

// Distance returns |a - b|.
func Distance[T Vector[T]](a, b T) float64 {
	return a.Sub(b).Norm()
}
