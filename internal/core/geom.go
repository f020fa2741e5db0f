// Package core provides fundamental types and utilities shared by the engine
// and the platform layer. It has no external dependencies (especially no
// Bubble Tea) so that simulation code stays pure and testable.
package core

import "math"

// Vec2 is a point or direction in arena space.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{v.X * k, v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Norm returns v scaled to unit length. The zero vector stays zero.
func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Dist returns the distance between a and b.
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// CirclesOverlap reports whether two circles touch or overlap.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	r := ra + rb
	return dx*dx+dy*dy <= r*r
}

// InAnnulus reports whether p lies in the ring around center whose distance
// from center is within [inner, outer].
func InAnnulus(p, center Vec2, inner, outer float64) bool {
	d := Dist(p, center)
	return d >= inner && d <= outer
}

// Bounds is an axis-aligned play area in arena units.
type Bounds struct {
	W, H float64
}

// Contains reports whether p is inside the bounds grown by margin on every side.
func (b Bounds) Contains(p Vec2, margin float64) bool {
	return p.X >= -margin && p.X <= b.W+margin && p.Y >= -margin && p.Y <= b.H+margin
}

// Center returns the middle of the play area.
func (b Bounds) Center() Vec2 {
	return Vec2{b.W / 2, b.H / 2}
}

// Rect represents an axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
