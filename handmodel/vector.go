// Package handmodel holds the data types shared by the depth utility,
// segmentation engine, and point processor: depth frames, the projection
// cache, the working matrices, tracked points, and the hand records emitted
// per frame.
package handmodel

import "math"

// Vector3 is a point or displacement in millimeters, world-space.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the Euclidean distance between v and other.
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// IsZero reports whether v is the zero vector.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Point2 is an image-space pixel coordinate.
type Point2 struct {
	X, Y int
}

// Add returns p + other.
func (p Point2) Add(other Point2) Point2 {
	return Point2{p.X + other.X, p.Y + other.Y}
}

// DistanceSquared returns the squared pixel distance between p and other,
// avoiding a sqrt for callers that only need to compare distances.
func (p Point2) DistanceSquared(other Point2) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}
