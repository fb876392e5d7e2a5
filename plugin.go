package sway

import (
	"reflect"

	"github.com/tanema/gween/ease"
)

// Plugin evaluates intermediate values of type T for tweens carrying options
// of type O. Evaluate returns the value elapsed seconds into a duration-long
// transition from start to end, shaped by fn. duration is always positive.
//
// Plugins are registered per (T, O) pair on a Manager; tweens created with
// To look their plugin up by type.
type Plugin[T, O any] interface {
	Evaluate(opts O, fn ease.TweenFunc, elapsed, duration float32, start, end T) T
}

// PluginFunc adapts an ordinary function to the Plugin interface.
type PluginFunc[T, O any] func(opts O, fn ease.TweenFunc, elapsed, duration float32, start, end T) T

// Evaluate calls f.
func (f PluginFunc[T, O]) Evaluate(opts O, fn ease.TweenFunc, elapsed, duration float32, start, end T) T {
	return f(opts, fn, elapsed, duration, start, end)
}

// Offsetter is implemented by plugins that support relative tweens, where the
// end value is an offset from the start value captured at startup.
type Offsetter[T any] interface {
	Offset(base, delta T) T
}

// pluginKey identifies a (value type, options type) pair. It keys both the
// plugin registry and the tween pool.
type pluginKey struct {
	value   reflect.Type
	options reflect.Type
}

func keyOf[T, O any]() pluginKey {
	return pluginKey{value: reflect.TypeFor[T](), options: reflect.TypeFor[O]()}
}

func (k pluginKey) String() string {
	return k.value.String() + "/" + k.options.String()
}

// RegisterPlugin makes p the default plugin for tweens of T with options O
// created on m, replacing any previous registration.
func RegisterPlugin[T, O any](m *Manager, p Plugin[T, O]) {
	if p == nil {
		m.logf(levelWarn, "RegisterPlugin: nil plugin for %s ignored", keyOf[T, O]())
		return
	}
	m.plugins[keyOf[T, O]()] = p
}

func lookupPlugin[T, O any](m *Manager) (Plugin[T, O], bool) {
	p, ok := m.plugins[keyOf[T, O]()]
	if !ok {
		return nil, false
	}
	tp, ok := p.(Plugin[T, O])
	return tp, ok
}
