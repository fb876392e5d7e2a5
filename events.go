package sway

// EventKind identifies a lifecycle edge of an animation.
type EventKind uint8

const (
	EventStart EventKind = iota
	EventPlay
	EventPause
	EventRewind
	EventStepComplete
	EventComplete
	EventKill
)

var eventKindNames = [...]string{
	EventStart:        "start",
	EventPlay:         "play",
	EventPause:        "pause",
	EventRewind:       "rewind",
	EventStepComplete: "stepComplete",
	EventComplete:     "complete",
	EventKill:         "kill",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// AnimationEvent describes one lifecycle edge. It is published to the
// manager's EventSink alongside the matching callback.
type AnimationEvent struct {
	Kind           EventKind
	ID             any  // the animation's SetID value
	Sequence       bool // the animation is a sequence
	Nested         bool // the animation is owned by a sequence
	Position       float32
	CompletedLoops int
}

// EventSink receives animation lifecycle events. Set one with
// Manager.SetEventSink to route events into an ECS or an event bus instead of
// (or as well as) per-animation callbacks.
type EventSink interface {
	EmitEvent(event AnimationEvent)
}

// SetEventSink sets the sink that receives lifecycle events. Pass nil to stop.
func (m *Manager) SetEventSink(sink EventSink) { m.sink = sink }

func (m *Manager) emit(a *Animation, kind EventKind) {
	if m.sink == nil || m.quitting {
		return
	}
	m.sink.EmitEvent(AnimationEvent{
		Kind:           kind,
		ID:             a.id,
		Sequence:       a.kind == kindSequence,
		Nested:         a.parent != nil,
		Position:       a.position,
		CompletedLoops: a.completedLoops,
	})
}
