package sway

import (
	"math"

	"github.com/tanema/gween/ease"
)

// NoOptions is the options type of plugins that take none.
type NoOptions struct{}

// FloatOptions configures float tweens.
type FloatOptions struct {
	// Snapping rounds every written value to the nearest integer.
	Snapping bool
}

// VectorOptions configures Vec2 tweens.
type VectorOptions struct {
	// Axis restricts the tween to one axis.
	Axis AxisConstraint
	// Snapping rounds every written component to the nearest integer.
	Snapping bool
}

// ColorOptions configures Color tweens.
type ColorOptions struct {
	// AlphaOnly animates the A channel and keeps R, G and B at their start values.
	AlphaOnly bool
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

type floatPlugin[F ~float32 | ~float64] struct{}

func (floatPlugin[F]) Evaluate(opts FloatOptions, fn ease.TweenFunc, elapsed, duration float32, start, end F) F {
	v := lerp(float64(start), float64(end), float64(Ratio(fn, elapsed, duration)))
	if opts.Snapping {
		v = math.Round(v)
	}
	return F(v)
}

func (floatPlugin[F]) Offset(base, delta F) F { return base + delta }

type intPlugin struct{}

func (intPlugin) Evaluate(_ NoOptions, fn ease.TweenFunc, elapsed, duration float32, start, end int) int {
	return int(math.Round(lerp(float64(start), float64(end), float64(Ratio(fn, elapsed, duration)))))
}

func (intPlugin) Offset(base, delta int) int { return base + delta }

type vectorPlugin struct{}

func (vectorPlugin) Evaluate(opts VectorOptions, fn ease.TweenFunc, elapsed, duration float32, start, end Vec2) Vec2 {
	t := float64(Ratio(fn, elapsed, duration))
	v := start
	if opts.Axis != AxisY {
		v.X = lerp(start.X, end.X, t)
	}
	if opts.Axis != AxisX {
		v.Y = lerp(start.Y, end.Y, t)
	}
	if opts.Snapping {
		v.X = math.Round(v.X)
		v.Y = math.Round(v.Y)
	}
	return v
}

func (vectorPlugin) Offset(base, delta Vec2) Vec2 {
	return Vec2{X: base.X + delta.X, Y: base.Y + delta.Y}
}

type colorPlugin struct{}

func (colorPlugin) Evaluate(opts ColorOptions, fn ease.TweenFunc, elapsed, duration float32, start, end Color) Color {
	t := float64(Ratio(fn, elapsed, duration))
	c := start
	c.A = lerp(start.A, end.A, t)
	if !opts.AlphaOnly {
		c.R = lerp(start.R, end.R, t)
		c.G = lerp(start.G, end.G, t)
		c.B = lerp(start.B, end.B, t)
	}
	return c
}

func (colorPlugin) Offset(base, delta Color) Color {
	return Color{R: base.R + delta.R, G: base.G + delta.G, B: base.B + delta.B, A: base.A + delta.A}
}

func registerDefaultPlugins(m *Manager) {
	RegisterPlugin[float64, FloatOptions](m, floatPlugin[float64]{})
	RegisterPlugin[float32, FloatOptions](m, floatPlugin[float32]{})
	RegisterPlugin[int, NoOptions](m, intPlugin{})
	RegisterPlugin[Vec2, VectorOptions](m, vectorPlugin{})
	RegisterPlugin[Color, ColorOptions](m, colorPlugin{})
}
