package sway

import (
	"bytes"
	"log"
	"math"
	"testing"
)

// newTestManager returns a manager with linear easing and its log output
// captured in a buffer.
func newTestManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	return newTestManagerWith(t, func(*Settings) {})
}

func newTestManagerWith(t *testing.T, configure func(s *Settings)) (*Manager, *bytes.Buffer) {
	t.Helper()
	s := DefaultSettings()
	s.DefaultEase = "linear"
	configure(&s)
	m, err := NewManager(s)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	var buf bytes.Buffer
	m.SetLogger(log.New(&buf, "", 0))
	return m, &buf
}

func step(m *Manager, dt float32) {
	m.Update(UpdateNormal, dt, dt)
}

func near(got, want float64) bool {
	return math.Abs(got-want) < 1e-4
}

// recordSink collects every event it receives.
type recordSink struct {
	events []AnimationEvent
}

func (r *recordSink) EmitEvent(e AnimationEvent) { r.events = append(r.events, e) }

func (r *recordSink) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}
