package sway

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// Getter reads the current value of an animated target. It returns an error
// (typically ErrTargetInvalid) once the target is gone.
type Getter[T any] func() (T, error)

// Setter writes an animated value to its target. It returns an error once the
// target is gone.
type Setter[T any] func(T) error

// tweenLeaf is the value-specific half of a tween, reached from Animation
// through its kind tag.
type tweenLeaf interface {
	startup() bool
	apply(inverse bool) bool
	validate() bool
	reset()
	poolKey() pluginKey
}

// Sequenceable is implemented by *Tween and *Sequence: anything a Sequence
// can hold.
type Sequenceable interface {
	animation() *Animation
}

// Tween animates one value of type T from a start value to an end value
// through getter/setter accessors. O is the plugin options type.
//
// Tweens are created with To, ToWith or one of the typed shortcuts, and are
// owned by their Manager. All control methods come from the embedded
// Animation.
type Tween[T, O any] struct {
	Animation

	start   T
	end     T
	get     Getter[T]
	set     Setter[T]
	plugin  Plugin[T, O]
	options O

	startOverridden bool
	relative        bool
}

func (t *Tween[T, O]) animation() *Animation {
	if t == nil {
		return nil
	}
	return &t.Animation
}

// To creates a tween that animates the target behind get and set to end over
// duration seconds, using the plugin registered on m for (T, O). It returns
// nil, and logs an error, when no such plugin is registered.
func To[T, O any](m *Manager, get Getter[T], set Setter[T], end T, duration float32) *Tween[T, O] {
	p, ok := lookupPlugin[T, O](m)
	if !ok {
		m.logf(levelError, "no plugin registered for %s", keyOf[T, O]())
		return nil
	}
	return ToWith[T, O](m, p, get, set, end, duration)
}

// ToWith is To with an explicit plugin.
func ToWith[T, O any](m *Manager, p Plugin[T, O], get Getter[T], set Setter[T], end T, duration float32) *Tween[T, O] {
	switch {
	case p == nil:
		m.logf(levelError, "tween %s: nil plugin", keyOf[T, O]())
		return nil
	case get == nil || set == nil:
		m.logf(levelError, "tween %s: nil getter or setter", keyOf[T, O]())
		return nil
	}
	t := acquireTween[T, O](m)
	t.plugin = p
	t.get = get
	t.set = set
	t.end = end
	t.duration = max(duration, 0)
	m.spawn(&t.Animation)
	return t
}

// Float64 tweens a float64 target.
func Float64(m *Manager, get Getter[float64], set Setter[float64], end float64, duration float32) *Tween[float64, FloatOptions] {
	return To[float64, FloatOptions](m, get, set, end, duration)
}

// Float32 tweens a float32 target.
func Float32(m *Manager, get Getter[float32], set Setter[float32], end float32, duration float32) *Tween[float32, FloatOptions] {
	return To[float32, FloatOptions](m, get, set, end, duration)
}

// Int tweens an int target. Intermediate values are rounded.
func Int(m *Manager, get Getter[int], set Setter[int], end int, duration float32) *Tween[int, NoOptions] {
	return To[int, NoOptions](m, get, set, end, duration)
}

// Vector tweens a Vec2 target.
func Vector(m *Manager, get Getter[Vec2], set Setter[Vec2], end Vec2, duration float32) *Tween[Vec2, VectorOptions] {
	return To[Vec2, VectorOptions](m, get, set, end, duration)
}

// RGBA tweens a Color target.
func RGBA(m *Manager, get Getter[Color], set Setter[Color], end Color, duration float32) *Tween[Color, ColorOptions] {
	return To[Color, ColorOptions](m, get, set, end, duration)
}

// ---- tweenLeaf -------------------------------------------------------------

func (t *Tween[T, O]) poolKey() pluginKey { return keyOf[T, O]() }

func (t *Tween[T, O]) startup() bool {
	if !t.startOverridden {
		v, err := t.read()
		if err != nil {
			t.m.logf(levelWarn, "%s: startup: %v", &t.Animation, err)
			return false
		}
		t.start = v
	}
	if t.relative {
		off, ok := t.plugin.(Offsetter[T])
		if !ok {
			t.m.logf(levelError, "%s: relative tween needs an offset plugin", &t.Animation)
			return false
		}
		t.end = off.Offset(t.start, t.end)
		t.relative = false
	}
	return true
}

func (t *Tween[T, O]) apply(inverse bool) bool {
	if err := t.write(inverse); err != nil {
		t.m.logf(levelWarn, "%s: target invalid: %v", &t.Animation, err)
		return true
	}
	return false
}

func (t *Tween[T, O]) validate() bool {
	_, err := t.read()
	return err == nil
}

func (t *Tween[T, O]) reset() {
	var zero T
	var opts O
	t.start, t.end = zero, zero
	t.get, t.set = nil, nil
	t.plugin = nil
	t.options = opts
	t.startOverridden = false
	t.relative = false
}

// read calls the getter. In safe mode a panicking getter counts as an
// invalid target.
func (t *Tween[T, O]) read() (v T, err error) {
	if t.m.safeMode {
		defer recoverInto(&err)
	}
	return t.get()
}

// write evaluates the value at the current position and hands it to the
// setter.
func (t *Tween[T, O]) write(inverse bool) (err error) {
	if t.m.safeMode {
		defer recoverInto(&err)
	}
	var v T
	if t.duration <= 0 {
		// Instant tweens jump between their two ends.
		var elapsed float32
		if t.completedLoops > 0 && !(t.loopType == LoopYoyo && t.completedLoops%2 == 0) {
			elapsed = 1
		}
		v = t.plugin.Evaluate(t.options, ease.Linear, elapsed, 1, t.start, t.end)
	} else {
		position := t.position
		if inverse {
			position = t.duration - position
		}
		v = t.plugin.Evaluate(t.options, t.ease, position, t.duration, t.start, t.end)
	}
	return t.set(v)
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: recovered panic: %v", ErrTargetInvalid, r)
	}
}

// ---- values ----------------------------------------------------------------

// changeable reports whether the tween's values may be changed in place.
func (t *Tween[T, O]) changeable(op string) bool {
	if !t.active {
		t.m.usage(&t.Animation, "%s on a killed tween", op)
		return false
	}
	if t.parent != nil {
		t.m.usage(&t.Animation, "%s on a tween nested in a sequence", op)
		return false
	}
	return true
}

// rewindSilently sends the tween back to position 0 without firing callbacks
// and writes the start value.
func (t *Tween[T, O]) rewindSilently() {
	t.m.enter()
	defer t.m.leave()
	t.m.finish(&t.Animation, t.doGoto(0, 0, modeSilent))
}

// ChangeStartValue replaces the start value and rewinds the tween.
func (t *Tween[T, O]) ChangeStartValue(v T) {
	if !t.changeable("ChangeStartValue") {
		return
	}
	t.start = v
	t.startOverridden = true
	t.rewindSilently()
}

// ChangeEndValue replaces the end value and rewinds the tween. With
// snapStart the start value is read again from the getter.
func (t *Tween[T, O]) ChangeEndValue(v T, snapStart bool) {
	if !t.changeable("ChangeEndValue") {
		return
	}
	t.end = v
	t.relative = false
	if snapStart {
		t.startOverridden = false
		t.startupDone = false
	}
	t.rewindSilently()
}

// ChangeValues replaces both values and rewinds the tween.
func (t *Tween[T, O]) ChangeValues(start, end T) {
	if !t.changeable("ChangeValues") {
		return
	}
	t.start = start
	t.end = end
	t.startOverridden = true
	t.relative = false
	t.rewindSilently()
}

// From makes the tween start from v instead of the value its getter returns
// at startup.
func (t *Tween[T, O]) From(v T) {
	if !t.configurable("From") {
		return
	}
	t.start = v
	t.startOverridden = true
}

// SetRelative makes the end value an offset from the start value. The plugin
// must implement Offsetter.
func (t *Tween[T, O]) SetRelative(relative bool) {
	if !t.configurable("SetRelative") {
		return
	}
	if t.startupDone {
		t.m.usage(&t.Animation, "SetRelative after startup")
		return
	}
	if _, ok := t.plugin.(Offsetter[T]); relative && !ok {
		t.m.usage(&t.Animation, "SetRelative: plugin for %s has no Offset", t.poolKey())
		return
	}
	t.relative = relative
}

// SetOptions replaces the plugin options.
func (t *Tween[T, O]) SetOptions(opts O) {
	if !t.active {
		t.m.usage(&t.Animation, "SetOptions on a killed tween")
		return
	}
	t.options = opts
}

// Options returns the plugin options.
func (t *Tween[T, O]) Options() O { return t.options }

// StartValue returns the start value. Before startup it is the zero value
// unless set with From or ChangeStartValue.
func (t *Tween[T, O]) StartValue() T { return t.start }

// EndValue returns the end value.
func (t *Tween[T, O]) EndValue() T { return t.end }
