package sway

import (
	"errors"
	"strings"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestToWithoutPluginReturnsNil(t *testing.T) {
	m, buf := newTestManager(t)
	var s string
	tw := To[string, NoOptions](m, PtrGetter(&s), PtrSetter(&s), "done", 1)
	if tw != nil {
		t.Fatal("To without a registered plugin should return nil")
	}
	if !strings.Contains(buf.String(), "no plugin registered for string/sway.NoOptions") {
		t.Errorf("missing error, log: %q", buf.String())
	}
	if m.TotalActive() != 0 {
		t.Errorf("TotalActive = %d, want 0", m.TotalActive())
	}
}

func TestRegisterPlugin(t *testing.T) {
	m, _ := newTestManager(t)
	typewriter := PluginFunc[string, NoOptions](func(_ NoOptions, fn ease.TweenFunc, elapsed, duration float32, start, end string) string {
		n := int(Ratio(fn, elapsed, duration) * float32(len(end)))
		return end[:n]
	})
	RegisterPlugin[string, NoOptions](m, typewriter)

	var s string
	tw := To[string, NoOptions](m, PtrGetter(&s), PtrSetter(&s), "hello world", 1)
	if tw == nil {
		t.Fatal("To returned nil with a registered plugin")
	}
	step(m, 0.5)
	if s != "hello" {
		t.Errorf("s = %q, want %q", s, "hello")
	}
	step(m, 0.5)
	if s != "hello world" {
		t.Errorf("s = %q, want %q", s, "hello world")
	}
}

func TestToWithRejectsMissingAccessors(t *testing.T) {
	m, buf := newTestManager(t)
	var x float64
	if tw := ToWith[float64, FloatOptions](m, floatPlugin[float64]{}, nil, PtrSetter(&x), 1, 1); tw != nil {
		t.Error("ToWith with a nil getter should return nil")
	}
	if tw := ToWith[float64, FloatOptions](m, nil, PtrGetter(&x), PtrSetter(&x), 1, 1); tw != nil {
		t.Error("ToWith with a nil plugin should return nil")
	}
	if !strings.Contains(buf.String(), "nil getter or setter") {
		t.Errorf("missing error, log: %q", buf.String())
	}
}

func TestFromOverridesStart(t *testing.T) {
	m, _ := newTestManager(t)
	x := 5.0
	tw := Float64Ptr(m, &x, 10, 1)
	tw.From(20)
	step(m, 0.5)
	if !near(x, 15) {
		t.Errorf("x = %v, want 15", x)
	}
}

func TestRelativeEnd(t *testing.T) {
	m, _ := newTestManager(t)
	x := 5.0
	tw := Float64Ptr(m, &x, 3, 1)
	tw.SetRelative(true)
	tw.SetAutoKill(false)
	step(m, 1)
	if x != 8 || tw.EndValue() != 8 {
		t.Errorf("x = %v end = %v, want 8 and 8", x, tw.EndValue())
	}
}

func TestChangeValuesRewind(t *testing.T) {
	m, _ := newTestManager(t)
	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	step(m, 0.5)

	tw.ChangeEndValue(20, false)
	if x != 0 || tw.Position() != 0 {
		t.Fatalf("after ChangeEndValue x = %v pos = %v, want 0 and 0", x, tw.Position())
	}
	step(m, 0.5)
	if !near(x, 10) {
		t.Errorf("x = %v, want 10", x)
	}

	tw.ChangeStartValue(4)
	if x != 4 {
		t.Errorf("after ChangeStartValue x = %v, want 4", x)
	}

	tw.ChangeValues(100, 200)
	step(m, 0.25)
	if !near(x, 125) {
		t.Errorf("after ChangeValues x = %v, want 125", x)
	}
}

func TestChangeEndValueSnapsStart(t *testing.T) {
	m, _ := newTestManager(t)
	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	step(m, 0.5)

	x = 50
	tw.ChangeEndValue(60, true)
	if tw.StartValue() != 50 || x != 50 {
		t.Errorf("start = %v x = %v, want 50 and 50", tw.StartValue(), x)
	}
}

func TestIntTweenRounds(t *testing.T) {
	m, _ := newTestManager(t)
	var n int
	get := func() (int, error) { return n, nil }
	set := func(v int) error { n = v; return nil }
	Int(m, get, set, 10, 1)

	step(m, 0.26)
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
}

func TestVectorAxisConstraint(t *testing.T) {
	m, _ := newTestManager(t)
	p := Vec2{X: 1, Y: 1}
	tw := VectorPtr(m, &p, Vec2{X: 11, Y: 21}, 1)
	tw.SetOptions(VectorOptions{Axis: AxisX})

	step(m, 0.5)
	if !near(p.X, 6) || p.Y != 1 {
		t.Errorf("p = %+v, want X 6 and Y untouched", p)
	}
	if tw.Options().Axis != AxisX {
		t.Error("Options did not return what SetOptions stored")
	}
}

func TestColorAlphaOnly(t *testing.T) {
	m, _ := newTestManager(t)
	c := Color{R: 1, G: 0.5, B: 0, A: 1}
	tw := ColorPtr(m, &c, Color{R: 0, G: 0, B: 1, A: 0}, 1)
	tw.SetOptions(ColorOptions{AlphaOnly: true})

	step(m, 0.5)
	if c.R != 1 || c.G != 0.5 || c.B != 0 || !near(c.A, 0.5) {
		t.Errorf("c = %+v, want only alpha at 0.5", c)
	}
}

func TestFloatSnapping(t *testing.T) {
	m, _ := newTestManager(t)
	var x float32
	tw := Float32Ptr(m, &x, 10, 1)
	tw.SetOptions(FloatOptions{Snapping: true})
	step(m, 0.33)
	if x != 3 {
		t.Errorf("x = %v, want 3", x)
	}
}

func TestFailingSetterKillsTween(t *testing.T) {
	m, buf := newTestManager(t)
	var x float64
	writes := 0
	set := func(v float64) error {
		writes++
		if writes > 1 {
			return ErrTargetInvalid
		}
		x = v
		return nil
	}
	tw := Float64(m, PtrGetter(&x), set, 10, 1)
	kills := 0
	tw.OnKill(func() { kills++ })

	step(m, 0.25)
	step(m, 0.25)
	if kills != 1 || m.TotalActive() != 0 {
		t.Errorf("kills = %d TotalActive = %d, want 1 and 0", kills, m.TotalActive())
	}
	if !near(x, 2.5) {
		t.Errorf("x = %v, the failed write must not land", x)
	}
	if !strings.Contains(buf.String(), "target invalid") {
		t.Errorf("missing warning, log: %q", buf.String())
	}
}

func TestPanickingGetterIsRecovered(t *testing.T) {
	m, _ := newTestManager(t)
	var x float64
	get := func() (float64, error) { panic("gone") }
	tw := Float64(m, get, PtrSetter(&x), 10, 1)
	kills := 0
	tw.OnKill(func() { kills++ })

	step(m, 0.5)
	if kills != 1 {
		t.Errorf("kills = %d, want 1", kills)
	}
}

func TestRecoverIntoWrapsTargetInvalid(t *testing.T) {
	err := func() (err error) {
		defer recoverInto(&err)
		panic("nil deref")
	}()
	if !errors.Is(err, ErrTargetInvalid) {
		t.Errorf("err = %v, want it to wrap ErrTargetInvalid", err)
	}
}

func TestGuard(t *testing.T) {
	alive := true
	x := 1.0
	get, set := Guard(func() bool { return alive }, PtrGetter(&x), PtrSetter(&x))
	if v, err := get(); err != nil || v != 1 {
		t.Fatalf("get = %v, %v", v, err)
	}
	alive = false
	if _, err := get(); !errors.Is(err, ErrTargetInvalid) {
		t.Errorf("get on a dead target = %v", err)
	}
	if err := set(2); !errors.Is(err, ErrTargetInvalid) || x != 1 {
		t.Errorf("set on a dead target = %v, x = %v", err, x)
	}
}

func TestNilPointerAccessors(t *testing.T) {
	if _, err := PtrGetter[float64](nil)(); !errors.Is(err, ErrTargetInvalid) {
		t.Errorf("PtrGetter(nil) = %v", err)
	}
	if err := PtrSetter[float64](nil)(1); !errors.Is(err, ErrTargetInvalid) {
		t.Errorf("PtrSetter(nil) = %v", err)
	}
}
