package driver

import (
	"testing"

	"github.com/phanxgames/sway"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "pause", "id": "hero"},
			{"action": "wait", "frames": 3},
			{"action": "timeScale", "value": 0.5},
			{"action": "play", "id": "hero"}
		]
	}`)

	r, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(r.steps))
	}
	if r.steps[0].Action != "pause" || r.steps[0].ID != "hero" {
		t.Error("step 0 mismatch")
	}
	if r.steps[1].Action != "wait" || r.steps[1].Frames != 3 {
		t.Error("step 1 mismatch")
	}
	if r.steps[2].Value != 0.5 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadScript_Invalid(t *testing.T) {
	if _, err := LoadScript([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadScript_Empty(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadScript_UnknownAction(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": [{"action": "dance"}]}`)); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestScriptStep_WaitThenPause(t *testing.T) {
	m := newManager(t)
	var x float64
	tw := sway.Float64Ptr(m, &x, 1, 10)
	tw.SetID("hero")

	r, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 2},
		{"action": "pause", "id": "hero"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	r.Step(m) // wait, frame 1
	if !tw.IsPlaying() {
		t.Fatal("paused too early")
	}
	r.Step(m) // wait, frame 2
	if !tw.IsPlaying() {
		t.Fatal("paused too early")
	}
	if r.Done() {
		t.Fatal("script done before its last step")
	}
	r.Step(m)
	if tw.IsPlaying() {
		t.Error("tween still playing after pause step")
	}
	if !r.Done() {
		t.Error("script should be done")
	}
}

func TestScriptDrivenByGame(t *testing.T) {
	m := newManager(t)
	var x float64
	sway.Float64Ptr(m, &x, 1, 10).SetID("hero")

	r, err := LoadScript([]byte(`{"steps": [{"action": "kill", "id": "hero"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g := &Game{Manager: m, Script: r}
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if m.TotalActive() != 0 {
		t.Errorf("TotalActive = %d, want 0 after scripted kill", m.TotalActive())
	}
	if x != 0 {
		t.Errorf("x = %v, killed tween must not have moved", x)
	}
}

func TestScriptTimeScale(t *testing.T) {
	m := newManager(t)
	r, err := LoadScript([]byte(`{"steps": [{"action": "timeScale", "value": 0.25}]}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Step(m)
	if m.TimeScale != 0.25 {
		t.Errorf("TimeScale = %v, want 0.25", m.TimeScale)
	}
}
