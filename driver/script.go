package driver

import (
	"encoding/json"
	"fmt"

	"github.com/phanxgames/sway"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	ID     string  `json:"id,omitempty"`
	Value  float32 `json:"value,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// Script issues manager commands across frames, for automated playback
// tests and recorded demos. Attach one to Game.Script; it runs before the
// Normal pass every tick.
//
//	{"steps": [
//		{"action": "wait", "frames": 30},
//		{"action": "pause", "id": "hero"},
//		{"action": "timeScale", "value": 0.5},
//		{"action": "play", "id": "hero"}
//	]}
//
// IDs match animations tagged with SetID using a string.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: s.Steps}, nil
}

func knownAction(action string) bool {
	switch action {
	case "wait", "pause", "play", "restart", "complete", "kill",
		"pauseAll", "playAll", "killAll", "timeScale":
		return true
	}
	return false
}

// Done reports whether every step has run.
func (r *Script) Done() bool {
	return r.done
}

// Step runs the actions due this frame.
func (r *Script) Step(m *sway.Manager) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}

	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++
		if st.Action == "wait" {
			if st.Frames > 0 {
				r.waitCount = st.Frames - 1 // this frame counts as one
			}
			break
		}
		run(m, st)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func run(m *sway.Manager, st scriptStep) {
	switch st.Action {
	case "pause":
		m.PauseID(st.ID)
	case "play":
		m.PlayID(st.ID)
	case "restart":
		m.RestartID(st.ID, true)
	case "complete":
		m.CompleteID(st.ID, true)
	case "kill":
		m.KillID(st.ID, false)
	case "pauseAll":
		m.PauseAll()
	case "playAll":
		m.PlayAll()
	case "killAll":
		m.KillAll(false)
	case "timeScale":
		m.TimeScale = st.Value
	}
}
