package sway

// PtrGetter returns a Getter reading *p.
func PtrGetter[T any](p *T) Getter[T] {
	return func() (T, error) {
		if p == nil {
			var zero T
			return zero, ErrTargetInvalid
		}
		return *p, nil
	}
}

// PtrSetter returns a Setter writing *p.
func PtrSetter[T any](p *T) Setter[T] {
	return func(v T) error {
		if p == nil {
			return ErrTargetInvalid
		}
		*p = v
		return nil
	}
}

// Guard wraps an accessor pair so both fail with ErrTargetInvalid once alive
// reports false. Use it for targets with their own lifetime, such as a
// sprite that can be disposed while its tween is running:
//
//	get, set := sway.Guard(func() bool { return !node.IsDisposed() },
//		sway.PtrGetter(&node.X), sway.PtrSetter(&node.X))
func Guard[T any](alive func() bool, get Getter[T], set Setter[T]) (Getter[T], Setter[T]) {
	return func() (T, error) {
			if !alive() {
				var zero T
				return zero, ErrTargetInvalid
			}
			return get()
		}, func(v T) error {
			if !alive() {
				return ErrTargetInvalid
			}
			return set(v)
		}
}

// Float64Ptr tweens *p to end over duration seconds.
func Float64Ptr(m *Manager, p *float64, end float64, duration float32) *Tween[float64, FloatOptions] {
	return Float64(m, PtrGetter(p), PtrSetter(p), end, duration)
}

// Float32Ptr tweens *p to end over duration seconds.
func Float32Ptr(m *Manager, p *float32, end float32, duration float32) *Tween[float32, FloatOptions] {
	return Float32(m, PtrGetter(p), PtrSetter(p), end, duration)
}

// VectorPtr tweens *p to end over duration seconds.
func VectorPtr(m *Manager, p *Vec2, end Vec2, duration float32) *Tween[Vec2, VectorOptions] {
	return Vector(m, PtrGetter(p), PtrSetter(p), end, duration)
}

// ColorPtr tweens all four components of *p to end over duration seconds.
func ColorPtr(m *Manager, p *Color, end Color, duration float32) *Tween[Color, ColorOptions] {
	return RGBA(m, PtrGetter(p), PtrSetter(p), end, duration)
}
