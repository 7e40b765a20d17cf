package physics

import "math"

// Concrete animatable values.

// Scalar is a single animated quantity such as opacity or scale.
type Scalar float64

func (s Scalar) Add(o Scalar) Scalar    { return s + o }
func (s Scalar) Sub(o Scalar) Scalar    { return s - o }
func (s Scalar) Scale(f float64) Scalar { return Scalar(float64(s) * f) }
func (s Scalar) Norm() float64          { return math.Abs(float64(s)) }
func (s Scalar) Float64() float64       { return float64(s) }

type Vec2 struct{ Xv, Yv float64 }

func (v Vec2) X() float64 { return v.Xv }
func (v Vec2) Y() float64 { return v.Yv }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.Xv + o.Xv, v.Yv + o.Yv} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.Xv - o.Xv, v.Yv - o.Yv} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.Xv * f, v.Yv * f} }
func (v Vec2) Norm() float64        { return math.Hypot(v.Xv, v.Yv) }

type Vec3 struct{ Xv, Yv, Zv float64 }

func (v Vec3) X() float64 { return v.Xv }
func (v Vec3) Y() float64 { return v.Yv }
func (v Vec3) Z() float64 { return v.Zv }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.Xv + o.Xv, v.Yv + o.Yv, v.Zv + o.Zv} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.Xv - o.Xv, v.Yv - o.Yv, v.Zv - o.Zv} }
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.Xv * f, v.Yv * f, v.Zv * f} }
func (v Vec3) Norm() float64        { return math.Sqrt(v.Xv*v.Xv + v.Yv*v.Yv + v.Zv*v.Zv) }

var (
	_ Vector[Scalar] = Scalar(0)
	_ Vector[Vec2]   = Vec2{}
	_ Vector[Vec3]   = Vec3{}
	_ Vector2        = Vec2{}
	_ Vector3        = Vec3{}
)

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 { return math.Hypot(x2-x1, y2-y1) }

// Distance2V computes distance from two Vector2.
func Distance2V(a, b Vector2) float64 { return math.Hypot(b.X()-a.X(), b.Y()-a.Y()) }
