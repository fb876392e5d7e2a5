package sway

import (
	"slices"
	"strings"
	"testing"
)

func TestNewManagerRejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.DefaultEase = "wobble"
	if _, err := NewManager(s); err == nil {
		t.Fatal("expected an error for an unknown ease")
	}
}

func TestRecyclableTweenIsReused(t *testing.T) {
	m, _ := newTestManagerWith(t, func(s *Settings) { s.Recyclable = true })
	var x, y float64
	first := Float64Ptr(m, &x, 1, 1)
	first.SetID("first")
	first.OnComplete(func() {})
	first.Kill(false)

	if tweens, _ := m.TotalPooled(); tweens != 1 {
		t.Fatalf("pooled tweens = %d, want 1", tweens)
	}

	second := Float64Ptr(m, &y, 5, 2)
	if second != first {
		t.Fatal("a pooled tween of the same type should be reused")
	}
	if second.ID() != nil || second.EndValue() != 5 || second.Duration(false) != 2 {
		t.Errorf("reused tween kept old state: id = %v end = %v duration = %v",
			second.ID(), second.EndValue(), second.Duration(false))
	}
	if !second.IsActive() || second.Position() != 0 || second.IsInitialized() {
		t.Error("reused tween should start fresh")
	}
	if second.onComplete != nil {
		t.Error("reused tween kept its callbacks")
	}

	// A different value type never takes it.
	second.Kill(false)
	var f float32
	other := Float32Ptr(m, &f, 1, 1)
	if &other.Animation == &second.Animation {
		t.Error("pooled float64 tween handed out for float32")
	}
}

func TestNonRecyclableTweenIsDropped(t *testing.T) {
	m, _ := newTestManager(t)
	var x float64
	Float64Ptr(m, &x, 1, 1).Kill(false)
	if tweens, _ := m.TotalPooled(); tweens != 0 {
		t.Errorf("pooled tweens = %d, want 0", tweens)
	}
}

func TestRecyclableSequenceIsReused(t *testing.T) {
	m, _ := newTestManagerWith(t, func(s *Settings) { s.Recyclable = true })
	var x float64
	s := m.Sequence().Append(Float64Ptr(m, &x, 1, 1))
	s.Kill(false)

	tweens, sequences := m.TotalPooled()
	if tweens != 1 || sequences != 1 {
		t.Fatalf("pooled = %d tweens %d sequences, want 1 and 1", tweens, sequences)
	}
	again := m.Sequence()
	if again != s || again.Len() != 0 || again.Duration(false) != 0 {
		t.Errorf("reused sequence: same = %v len = %d duration = %v", again == s, again.Len(), again.Duration(false))
	}
}

func TestCapacityGrowsWithWarning(t *testing.T) {
	m, buf := newTestManagerWith(t, func(s *Settings) { s.MaxTweens = 2 })
	var v [3]float64
	for i := range v {
		Float64Ptr(m, &v[i], 1, 1)
	}
	tweens, _ := m.Capacity()
	if tweens != defaultMaxTweens {
		t.Errorf("tween capacity = %d, want %d", tweens, defaultMaxTweens)
	}
	if !strings.Contains(buf.String(), "max tweens reached") {
		t.Errorf("missing warning, log: %q", buf.String())
	}
}

func TestFullPoolEvictsOldest(t *testing.T) {
	m, _ := newTestManagerWith(t, func(s *Settings) {
		s.MaxTweens = 3
		s.Recyclable = true
	})
	var v [3]float64
	a := Float64Ptr(m, &v[0], 1, 1)
	b := Float64Ptr(m, &v[1], 1, 1)
	a.Kill(false)
	b.Kill(false)

	// Two pooled float64 tweens, so a float32 tween has to evict one.
	var f float32
	Float32Ptr(m, &f, 1, 1)
	if tweens, _ := m.TotalPooled(); tweens != 1 {
		t.Fatalf("pooled = %d, want 1", tweens)
	}
	if c := Float64Ptr(m, &v[2], 1, 1); c != b {
		t.Error("the newest pooled tween should survive eviction")
	}
	if tweens, _ := m.Capacity(); tweens != 3 {
		t.Errorf("capacity = %d, eviction should not grow it", tweens)
	}
}

func TestSetCapacityTrimsPools(t *testing.T) {
	m, _ := newTestManagerWith(t, func(s *Settings) { s.Recyclable = true })
	var v [4]float64
	for i := range v {
		Float64Ptr(m, &v[i], 1, 1)
	}
	m.KillAll(false)
	if tweens, _ := m.TotalPooled(); tweens != 4 {
		t.Fatalf("pooled = %d, want 4", tweens)
	}
	m.SetCapacity(2, 10)
	if tweens, _ := m.TotalPooled(); tweens != 2 {
		t.Errorf("pooled after SetCapacity = %d, want 2", tweens)
	}
	if tw, seq := m.Capacity(); tw != 2 || seq != 10 {
		t.Errorf("Capacity = %d, %d", tw, seq)
	}
}

func TestGlobalControlsByID(t *testing.T) {
	m, _ := newTestManager(t)
	var v [3]float64
	Float64Ptr(m, &v[0], 1, 1).SetID("a")
	Float64Ptr(m, &v[1], 1, 1).SetID("b")
	Float64Ptr(m, &v[2], 1, 1).SetID("a")

	if n := m.PauseID("a"); n != 2 {
		t.Errorf("PauseID = %d, want 2", n)
	}
	if m.IsTweening("a") || !m.IsTweening("b") {
		t.Error("IsTweening disagrees with the paused state")
	}
	if n := m.TotalPlaying(); n != 1 {
		t.Errorf("TotalPlaying = %d, want 1", n)
	}
	if n := m.PlayID("a"); n != 2 {
		t.Errorf("PlayID = %d, want 2", n)
	}
	if n := m.CompleteID("b", false); n != 1 || v[1] != 1 {
		t.Errorf("CompleteID = %d, v[1] = %v", n, v[1])
	}
	if n := m.KillID("a", false); n != 2 {
		t.Errorf("KillID = %d, want 2", n)
	}
	if m.TotalActive() != 0 {
		t.Errorf("TotalActive = %d, want 0", m.TotalActive())
	}
}

func TestGlobalControls(t *testing.T) {
	m, _ := newTestManager(t)
	var x, y float64
	Float64Ptr(m, &x, 10, 1)
	Float64Ptr(m, &y, 10, 1)

	step(m, 0.5)
	if n := m.PauseAll(); n != 2 {
		t.Errorf("PauseAll = %d", n)
	}
	if n := m.TogglePauseAll(); n != 2 || m.TotalPlaying() != 2 {
		t.Errorf("TogglePauseAll = %d playing = %d", n, m.TotalPlaying())
	}
	if n := m.RewindAll(false); n != 2 || x != 0 || y != 0 {
		t.Errorf("RewindAll = %d x = %v y = %v", n, x, y)
	}
	if n := m.RestartAll(false); n != 2 || m.TotalPlaying() != 2 {
		t.Errorf("RestartAll = %d playing = %d", n, m.TotalPlaying())
	}
	if n := m.CompleteAll(false); n != 2 || x != 10 || y != 10 {
		t.Errorf("CompleteAll = %d x = %v y = %v", n, x, y)
	}
	if m.TotalActive() != 0 {
		t.Errorf("TotalActive = %d after completing auto-kill tweens", m.TotalActive())
	}
}

func TestPlayAll(t *testing.T) {
	m, _ := newTestManagerWith(t, func(s *Settings) { s.AutoPlay = false })
	var x float64
	Float64Ptr(m, &x, 10, 1)
	step(m, 0.5)
	if x != 0 {
		t.Fatalf("tween created paused moved: x = %v", x)
	}
	if n := m.PlayAll(); n != 1 {
		t.Errorf("PlayAll = %d, want 1", n)
	}
	step(m, 0.5)
	if !near(x, 5) {
		t.Errorf("x = %v, want 5", x)
	}
}

func TestClearFromCallbackIsDeferred(t *testing.T) {
	m, _ := newTestManager(t)
	var x, y float64
	a := Float64Ptr(m, &x, 10, 1)
	b := Float64Ptr(m, &y, 10, 1)
	kills := 0
	a.OnKill(func() { kills++ })
	b.OnKill(func() { kills++ })
	a.OnUpdate(func() { m.Clear(false) })

	step(m, 0.5)
	// The pass finishes before the clear runs.
	if !near(y, 5) {
		t.Errorf("y = %v, the pass should complete before clearing", y)
	}
	if kills != 2 || m.TotalActive() != 0 {
		t.Errorf("kills = %d TotalActive = %d, want 2 and 0", kills, m.TotalActive())
	}
}

func TestClearQuittingSkipsCallbacks(t *testing.T) {
	m, _ := newTestManager(t)
	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	kills := 0
	tw.OnKill(func() { kills++ })
	m.Clear(true)
	if kills != 0 || m.TotalActive() != 0 {
		t.Errorf("kills = %d TotalActive = %d, want 0 and 0", kills, m.TotalActive())
	}
}

func TestUpdateRejectsReentry(t *testing.T) {
	m, buf := newTestManager(t)
	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	tw.OnUpdate(func() { step(m, 0.5) })

	step(m, 0.25)
	if !near(x, 2.5) {
		t.Errorf("x = %v, nested Update must not advance anything", x)
	}
	if !strings.Contains(buf.String(), "Update called from inside an update pass") {
		t.Errorf("missing warning, log: %q", buf.String())
	}
}

func TestTimeScales(t *testing.T) {
	m, _ := newTestManager(t)
	var scaled, independent, fast float64
	Float64Ptr(m, &scaled, 10, 1)
	ind := Float64Ptr(m, &independent, 10, 1)
	ind.SetUpdate(UpdateNormal, true)
	f := Float64Ptr(m, &fast, 10, 1)
	f.SetTimeScale(2)

	m.TimeScale = 0.5
	m.Update(UpdateNormal, 0.2, 0.3)

	if !near(scaled, 1) {
		t.Errorf("scaled = %v, want 1", scaled)
	}
	if !near(independent, 3) {
		t.Errorf("independent = %v, want 3", independent)
	}
	if !near(fast, 2) {
		t.Errorf("fast = %v, want 2", fast)
	}
}

func TestLatePass(t *testing.T) {
	m, _ := newTestManager(t)
	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	tw.SetUpdate(UpdateLate, false)
	if tw.UpdateType() != UpdateLate {
		t.Fatal("SetUpdate did not change the update type")
	}

	step(m, 0.5)
	if x != 0 {
		t.Errorf("late tween advanced on the normal pass: x = %v", x)
	}
	m.Update(UpdateLate, 0.5, 0.5)
	if !near(x, 5) {
		t.Errorf("x = %v, want 5", x)
	}
}

func TestValidateKillsDeadTargets(t *testing.T) {
	m, _ := newTestManager(t)
	alive := true
	var x, y float64
	get, set := Guard(func() bool { return alive }, PtrGetter(&x), PtrSetter(&x))
	Float64(m, get, set, 10, 1)
	Float64Ptr(m, &y, 10, 1)

	if n := m.Validate(); n != 0 {
		t.Fatalf("Validate = %d with live targets", n)
	}
	alive = false
	if n := m.Validate(); n != 1 {
		t.Errorf("Validate = %d, want 1", n)
	}
	if m.TotalActive() != 1 {
		t.Errorf("TotalActive = %d, want 1", m.TotalActive())
	}
}

func TestEventSinkReceivesLifecycle(t *testing.T) {
	m, _ := newTestManager(t)
	sink := &recordSink{}
	m.SetEventSink(sink)

	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	tw.SetID(7)
	step(m, 0.5)
	tw.Pause()
	tw.Play()
	step(m, 0.5)

	want := []EventKind{EventStart, EventPlay, EventPause, EventPlay, EventStepComplete, EventComplete, EventKill}
	if got := sink.kinds(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	last := sink.events[len(sink.events)-1]
	if last.ID != 7 || last.Sequence || last.Nested {
		t.Errorf("kill event = %+v", last)
	}

	m.SetEventSink(nil)
	Float64Ptr(m, &x, 1, 1)
	step(m, 2)
	if len(sink.events) != len(want) {
		t.Error("events still delivered after removing the sink")
	}
}

func TestEventKindString(t *testing.T) {
	if EventStepComplete.String() != "stepComplete" {
		t.Errorf("String = %q", EventStepComplete.String())
	}
	if EventKind(99).String() != "unknown" {
		t.Errorf("String = %q", EventKind(99).String())
	}
}

func TestActiveSetCompacts(t *testing.T) {
	m, _ := newTestManager(t)
	var v [5]float64
	tweens := make([]*Tween[float64, FloatOptions], len(v))
	for i := range v {
		tweens[i] = Float64Ptr(m, &v[i], 1, 1)
	}
	tweens[1].Kill(false)
	tweens[3].Kill(false)
	if m.TotalActive() != 3 {
		t.Fatalf("TotalActive = %d, want 3", m.TotalActive())
	}

	step(m, 0.1)
	if len(m.active) != 3 {
		t.Errorf("active slots = %d, want 3 after compaction", len(m.active))
	}
	for i, a := range m.active {
		if a.activeIndex != i {
			t.Errorf("slot %d holds an animation indexed %d", i, a.activeIndex)
		}
	}
}

func TestDebugModeLogsPasses(t *testing.T) {
	m, buf := newTestManager(t)
	m.SetDebugMode(true)
	var x float64
	Float64Ptr(m, &x, 10, 1)
	step(m, 0.1)
	if !strings.Contains(buf.String(), "normal pass: scan") || !strings.Contains(buf.String(), "updated: 1") {
		t.Errorf("missing pass stats, log: %q", buf.String())
	}
}

func TestLogBehaviourFilters(t *testing.T) {
	m, buf := newTestManager(t)
	m.SetLogBehaviour(LogSilent)
	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	step(m, 0.1)
	tw.SetLoops(3, LoopRestart)
	if buf.Len() != 0 {
		t.Errorf("silent manager logged %q", buf.String())
	}

	m.SetLogBehaviour(LogErrorsOnly)
	tw.SetLoops(3, LoopRestart)
	if buf.Len() != 0 {
		t.Errorf("errors-only manager logged a warning: %q", buf.String())
	}

	m.SetLogBehaviour(LogVerbose)
	m.Sequence()
	step(m, 0.1)
	if !strings.Contains(buf.String(), "empty sequence discarded") {
		t.Errorf("verbose manager skipped info, log: %q", buf.String())
	}
}

func TestUnsafeModePanics(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetSafeMode(false)
	var x float64
	tw := Float64Ptr(m, &x, 10, 1)
	tw.OnUpdate(func() { panic("boom") })

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected the callback panic to propagate")
		}
	}()
	step(m, 0.1)
}
