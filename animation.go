package sway

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

type animKind uint8

const (
	kindTween animKind = iota
	kindSequence
)

// updateMode tells doGoto which edges and callbacks a transition may fire.
type updateMode uint8

const (
	modeUpdate           updateMode = iota // a real playback step: every callback
	modeGoto                               // a jump: no start edge, no step completions
	modeIgnoreOnUpdate                     // like modeGoto, without OnUpdate
	modeIgnoreOnComplete                   // like modeGoto, without OnComplete
	modeSilent                             // no callbacks at all
)

// Animation is the state machine shared by tweens and sequences. It is
// never created directly: Tween and Sequence embed it, and every control
// method below is available on both.
//
// An Animation belongs to exactly one owner at a time: the Manager's active
// set, a pool, or a Sequence. Once killed, a recyclable animation may be
// handed out again by a later To or Sequence call, so callers must drop their
// references when it is killed.
type Animation struct {
	m    *Manager
	kind animKind
	leaf tweenLeaf // set when kind == kindTween
	seq  *Sequence // set when kind == kindSequence

	id any

	position       float32
	duration       float32
	fullDuration   float32
	loops          int
	completedLoops int
	loopType       LoopType
	delay          float32
	elapsedDelay   float32
	delayComplete  bool
	timeScale      float32
	ease           ease.TweenFunc

	isPlaying   bool
	isComplete  bool
	isBackwards bool
	autoKill    bool
	recyclable  bool
	active      bool
	locked      bool
	playedOnce  bool
	startupDone bool
	pendingKill bool

	updateType  UpdateType
	independent bool
	activeIndex int

	parent               *Sequence
	sequencedPosition    float32
	sequencedEndPosition float32

	onStart        func()
	onPlay         func()
	onPause        func()
	onRewind       func()
	onUpdate       func()
	onStepComplete func()
	onComplete     func()
	onKill         func()
}

// String describes the animation for diagnostics.
func (a *Animation) String() string {
	kind := "tween"
	if a.kind == kindSequence {
		kind = "sequence"
	}
	if a.id != nil {
		return fmt.Sprintf("%s(id=%v)", kind, a.id)
	}
	return kind
}

// ---- dispatch --------------------------------------------------------------

func (a *Animation) startup() bool {
	var ok bool
	switch a.kind {
	case kindTween:
		ok = a.leaf.startup()
	case kindSequence:
		ok = a.seq.startup()
	}
	if ok {
		a.startupDone = true
		a.refreshFullDuration()
	}
	return ok
}

// apply writes the state reached by doGoto to the target(s). It returns true
// when the animation must be killed.
func (a *Animation) apply(prevPosition float32, prevCompletedLoops int, inverse bool, mode updateMode) bool {
	switch a.kind {
	case kindTween:
		return a.leaf.apply(inverse)
	case kindSequence:
		return a.seq.apply(prevPosition, prevCompletedLoops, mode)
	}
	return true
}

func (a *Animation) validate() bool {
	switch a.kind {
	case kindTween:
		return a.leaf.validate()
	case kindSequence:
		return a.seq.validate()
	}
	return false
}

// reset returns every field to its zero state so the animation can be pooled.
// Identity (manager, kind and the variant pointers) survives.
func (a *Animation) reset() {
	m, kind, leaf, seq := a.m, a.kind, a.leaf, a.seq
	*a = Animation{m: m, kind: kind, leaf: leaf, seq: seq, activeIndex: -1}
	switch kind {
	case kindTween:
		leaf.reset()
	case kindSequence:
		seq.reset()
	}
}

// ---- shared internals ------------------------------------------------------

func (a *Animation) refreshFullDuration() {
	if a.loops == InfiniteLoops {
		a.fullDuration = float32(math.Inf(1))
		return
	}
	a.fullDuration = a.duration * float32(a.loops)
}

// updateDelay consumes elapsed seconds of delay and returns what is left for
// the timeline once the delay is over.
func (a *Animation) updateDelay(elapsed float32) float32 {
	if elapsed > a.delay {
		a.elapsedDelay = a.delay
		a.delayComplete = true
		return elapsed - a.delay
	}
	a.elapsedDelay = elapsed
	return 0
}

// call runs a user callback and reports whether it killed the animation.
func (a *Animation) call(fn func()) (killed bool) {
	if fn == nil {
		return false
	}
	a.m.fire(a, fn)
	return !a.active
}

// signal publishes a lifecycle event, runs the matching callback and reports
// whether the animation was killed along the way.
func (a *Animation) signal(kind EventKind, fn func()) (killed bool) {
	a.m.emit(a, kind)
	return a.call(fn)
}

func (a *Animation) hasCallbacks() bool {
	return a.onStart != nil || a.onPlay != nil || a.onPause != nil || a.onRewind != nil ||
		a.onUpdate != nil || a.onStepComplete != nil || a.onComplete != nil || a.onKill != nil
}

// doGoto moves the animation to toPosition within loop toCompletedLoops,
// applies it and fires the callbacks the transition crossed. It returns true
// when the animation must be killed. User callbacks may kill or restructure
// this very animation, so every call site re-checks active afterwards.
func (a *Animation) doGoto(toPosition float32, toCompletedLoops int, mode updateMode) bool {
	if !a.startupDone && !a.startup() {
		return true
	}
	if !a.playedOnce && mode == modeUpdate {
		a.playedOnce = true
		if a.signal(EventStart, a.onStart) {
			return true
		}
		if a.signal(EventPlay, a.onPlay) {
			return true
		}
	}

	prevPosition := a.position
	prevCompletedLoops := a.completedLoops
	a.completedLoops = toCompletedLoops
	wasRewound := a.position <= 0 && prevCompletedLoops <= 0
	wasComplete := a.isComplete
	if a.loops != InfiniteLoops {
		a.isComplete = a.completedLoops == a.loops
	}

	// Loop boundaries crossed by this transition.
	steps := 0
	if mode == modeUpdate {
		if a.isBackwards {
			if a.completedLoops < prevCompletedLoops {
				steps = prevCompletedLoops - a.completedLoops
			} else if toPosition <= 0 && !wasRewound {
				steps = 1
			}
			if wasComplete {
				steps--
			}
		} else if a.completedLoops > prevCompletedLoops {
			steps = a.completedLoops - prevCompletedLoops
		}
		steps = max(steps, 0)
	}

	// Position 0 of a later loop reads as the end of the previous one.
	a.position = toPosition
	if a.position > a.duration {
		a.position = a.duration
	} else if a.position <= 0 {
		if a.completedLoops > 0 || a.isComplete {
			a.position = a.duration
		} else {
			a.position = 0
		}
	}

	wasPlaying := a.isPlaying
	if a.isPlaying {
		if !a.isBackwards {
			a.isPlaying = !a.isComplete
		} else {
			a.isPlaying = !(a.completedLoops == 0 && a.position <= 0)
		}
	}

	inverse := a.loopType == LoopYoyo && (a.position < a.duration && a.completedLoops%2 != 0 ||
		a.position >= a.duration && a.completedLoops%2 == 0)

	if a.apply(prevPosition, prevCompletedLoops, inverse, mode) || !a.active {
		return true
	}
	if mode == modeSilent {
		return a.autoKill && a.isComplete
	}

	if mode != modeIgnoreOnUpdate && a.call(a.onUpdate) {
		return true
	}
	if a.position <= 0 && a.completedLoops <= 0 && !wasRewound && a.signal(EventRewind, a.onRewind) {
		return true
	}
	if mode == modeUpdate {
		for i := 0; i < steps; i++ {
			if a.signal(EventStepComplete, a.onStepComplete) {
				return true
			}
		}
	}
	if a.isComplete && !wasComplete && mode != modeIgnoreOnComplete && a.signal(EventComplete, a.onComplete) {
		return true
	}
	if !a.isPlaying && wasPlaying && (!a.isComplete || !a.autoKill) && a.signal(EventPause, a.onPause) {
		return true
	}
	return a.autoKill && a.isComplete
}

// splitTime converts time elapsed across loops into a position within a
// loop and a completed loop count. Landing exactly on a loop boundary yields
// position 0 of the next loop, which doGoto reads as the end of the previous.
func (a *Animation) splitTime(to float32) (float32, int) {
	if a.duration <= 0 {
		if to <= 0 {
			return 0, 0
		}
		if a.loops == InfiniteLoops {
			return 0, a.completedLoops + 1
		}
		return 0, a.loops
	}
	to = max(to, 0)
	loops := int(to / a.duration)
	position := to - float32(loops)*a.duration
	if position >= a.duration {
		position -= a.duration
		loops++
	}
	position = max(position, 0)
	if a.loops != InfiniteLoops && loops >= a.loops {
		return a.duration, a.loops
	}
	return position, loops
}

// gotoTime places the animation at elapsed time to, counted across loops.
func (a *Animation) gotoTime(to float32, andPlay bool, mode updateMode) bool {
	wasPlaying := a.isPlaying
	a.isPlaying = andPlay
	a.delayComplete = true
	a.elapsedDelay = a.delay

	toPosition, toCompletedLoops := a.splitTime(to)
	mustKill := a.doGoto(toPosition, toCompletedLoops, mode)
	if !andPlay && wasPlaying && !mustKill && a.active && a.signal(EventPause, a.onPause) {
		return true
	}
	return mustKill
}

// gotoEnd places the animation on the end of its last loop. Instant
// animations never get there through gotoTime, which reads 0 as the start.
func (a *Animation) gotoEnd(mode updateMode) bool {
	if a.loops == InfiniteLoops {
		return a.gotoTime(a.duration, false, mode)
	}
	a.isPlaying = false
	a.delayComplete = true
	a.elapsedDelay = a.delay
	return a.doGoto(a.duration, a.loops, mode)
}

// advance computes where an update step of delta seconds lands.
func (a *Animation) advance(delta float32) (toPosition float32, toCompletedLoops int) {
	if a.duration <= 0 {
		return a.splitTime(1)
	}
	elapsed := a.Elapsed(true)
	if a.isBackwards {
		elapsed -= delta
	} else {
		elapsed += delta
	}
	return a.splitTime(elapsed)
}

// directionalPercentage returns how far through the current loop the
// animation visibly is, accounting for Yoyo loops played backwards.
func (a *Animation) directionalPercentage() float32 {
	if a.duration <= 0 {
		return 0
	}
	perc := a.position / a.duration
	inverse := a.completedLoops > 0 && a.loopType == LoopYoyo &&
		(!a.isComplete && a.completedLoops%2 != 0 || a.isComplete && a.completedLoops%2 == 0)
	if inverse {
		return 1 - perc
	}
	return perc
}

// ---- controls --------------------------------------------------------------

// controllable reports whether playback controls may act on a. Animations
// nested in a sequence are driven by their parent only.
func (a *Animation) controllable(op string) bool {
	if !a.active {
		a.m.usage(a, "%s on a killed animation", op)
		return false
	}
	if a.parent != nil {
		a.m.usage(a, "%s on an animation nested in a sequence", op)
		return false
	}
	return true
}

func (a *Animation) play() bool {
	if a.isPlaying {
		return false
	}
	if !a.isBackwards && !a.isComplete || a.isBackwards && (a.completedLoops > 0 || a.position > 0) {
		a.isPlaying = true
		if a.playedOnce && a.delayComplete {
			a.signal(EventPlay, a.onPlay)
		}
		return true
	}
	return false
}

func (a *Animation) pause() bool {
	if !a.isPlaying {
		return false
	}
	a.isPlaying = false
	a.signal(EventPause, a.onPause)
	return true
}

func (a *Animation) togglePause() bool {
	if a.isPlaying {
		return a.pause()
	}
	return a.play()
}

func (a *Animation) playBackwards() bool {
	if a.completedLoops == 0 && a.position <= 0 {
		a.isBackwards = true
		a.isPlaying = false
		return false
	}
	if !a.isBackwards {
		a.isBackwards = true
		a.play()
		return true
	}
	return a.play()
}

func (a *Animation) playForward() bool {
	if a.isComplete {
		a.isBackwards = false
		a.isPlaying = false
		return false
	}
	if a.isBackwards {
		a.isBackwards = false
		a.play()
		return true
	}
	return a.play()
}

func (a *Animation) rewind(includeDelay bool) bool {
	wasPlaying := a.isPlaying
	a.isPlaying = false
	rewound := false
	if a.delay > 0 {
		if includeDelay {
			rewound = a.elapsedDelay > 0
			a.elapsedDelay = 0
			a.delayComplete = false
		} else {
			rewound = a.elapsedDelay < a.delay
			a.elapsedDelay = a.delay
			a.delayComplete = true
		}
	}
	if a.position > 0 || a.completedLoops > 0 || !a.startupDone {
		rewound = true
		mustKill := a.doGoto(0, 0, modeGoto)
		if !mustKill && wasPlaying && a.active {
			mustKill = a.signal(EventPause, a.onPause)
		}
		a.m.finish(a, mustKill)
	}
	return rewound
}

func (a *Animation) restart(includeDelay bool) bool {
	wasPaused := !a.isPlaying
	a.isBackwards = false
	a.rewind(includeDelay)
	if !a.active {
		return false
	}
	a.isPlaying = true
	if wasPaused && a.playedOnce && a.delayComplete {
		a.signal(EventPlay, a.onPlay)
	}
	return true
}

func (a *Animation) smoothRewind() bool {
	rewound := false
	if a.delay > 0 {
		rewound = a.elapsedDelay < a.delay
		a.elapsedDelay = a.delay
		a.delayComplete = true
	}
	if a.position > 0 || a.completedLoops > 0 || !a.startupDone {
		rewound = true
		a.m.finish(a, a.gotoTime(a.directionalPercentage()*a.duration, false, modeGoto))
		if !a.active {
			return true
		}
		a.playBackwards()
	} else {
		a.isPlaying = false
	}
	return rewound
}

// control runs op as one manager operation: kills requested by callbacks
// while it runs are carried out when it returns.
func (a *Animation) control(name string, op func(a *Animation)) {
	if !a.controllable(name) {
		return
	}
	a.m.enter()
	defer a.m.leave()
	op(a)
}

// Play resumes playback in the current direction. It does nothing when the
// animation is already playing or has no room left to move.
func (a *Animation) Play() {
	a.control("Play", func(a *Animation) { a.play() })
}

// Pause stops playback and fires OnPause if the animation was playing.
func (a *Animation) Pause() {
	a.control("Pause", func(a *Animation) { a.pause() })
}

// TogglePause pauses a playing animation and plays a paused one.
func (a *Animation) TogglePause() {
	a.control("TogglePause", func(a *Animation) { a.togglePause() })
}

// PlayForward plays the animation forwards. On a complete animation it only
// clears the backwards flag.
func (a *Animation) PlayForward() {
	a.control("PlayForward", func(a *Animation) { a.playForward() })
}

// PlayBackwards plays the animation towards its start. On an animation
// already at position 0 of loop 0 it only sets the backwards flag.
func (a *Animation) PlayBackwards() {
	a.control("PlayBackwards", func(a *Animation) { a.playBackwards() })
}

// Flip inverts the playback direction without changing the play state.
func (a *Animation) Flip() {
	a.control("Flip", func(a *Animation) { a.isBackwards = !a.isBackwards })
}

// Rewind pauses the animation and sends it back to its start. With
// includeDelay the delay is rewound too. Rewinding an already rewound
// animation changes nothing and fires nothing.
func (a *Animation) Rewind(includeDelay bool) {
	a.control("Rewind", func(a *Animation) { a.rewind(includeDelay) })
}

// Restart rewinds the animation and plays it forwards.
func (a *Animation) Restart(includeDelay bool) {
	a.control("Restart", func(a *Animation) { a.restart(includeDelay) })
}

// SmoothRewind plays the animation backwards from its current visible
// position instead of jumping to the start.
func (a *Animation) SmoothRewind() {
	a.control("SmoothRewind", func(a *Animation) { a.smoothRewind() })
}

// Goto jumps to elapsed time to, counted across loops, without firing start
// or completion edges. With andPlay the animation keeps playing from there.
func (a *Animation) Goto(to float32, andPlay bool) {
	a.control("Goto", func(a *Animation) {
		a.m.finish(a, a.gotoTime(to, andPlay, modeGoto))
	})
}

// GotoWithCallbacks is Goto that fires every callback the jump crosses.
func (a *Animation) GotoWithCallbacks(to float32, andPlay bool) {
	a.control("GotoWithCallbacks", func(a *Animation) {
		a.m.finish(a, a.gotoTime(to, andPlay, modeUpdate))
	})
}

// Complete jumps to the end of the last loop. Infinite animations cannot
// complete. withCallbacks fires OnStart and the step callbacks the jump
// crosses; OnComplete fires either way.
func (a *Animation) Complete(withCallbacks bool) {
	mode := modeGoto
	if withCallbacks {
		mode = modeUpdate
	}
	a.control("Complete", func(a *Animation) { a.m.complete(a, mode) })
}

// Kill removes the animation from its manager, firing OnKill. With complete
// it jumps to its end first. Killing a killed animation does nothing.
func (a *Animation) Kill(complete bool) {
	if !a.active {
		return
	}
	a.control("Kill", func(a *Animation) {
		if complete {
			a.m.complete(a, modeGoto)
		}
		a.m.kill(a)
	})
}

// ForceInit runs the startup step now instead of on the first update. For a
// tween this captures the start value from its getter.
func (a *Animation) ForceInit() {
	a.control("ForceInit", func(a *Animation) {
		if !a.startupDone && !a.startup() {
			a.m.kill(a)
		}
	})
}

// ---- configuration ---------------------------------------------------------

// configurable reports whether structural settings may still change.
func (a *Animation) configurable(op string) bool {
	if !a.active {
		a.m.usage(a, "%s on a killed animation", op)
		return false
	}
	if a.locked {
		a.m.usage(a, "%s after the animation started or joined a sequence", op)
		return false
	}
	return true
}

// SetLoops sets the number of loops (InfiniteLoops for endless) and how each
// loop starts. A loop count of 0 is treated as 1.
func (a *Animation) SetLoops(loops int, lt LoopType) {
	if !a.configurable("SetLoops") {
		return
	}
	if loops < InfiniteLoops {
		loops = InfiniteLoops
	} else if loops == 0 {
		loops = 1
	}
	a.loops = loops
	a.loopType = lt
	a.refreshFullDuration()
}

// SetEase sets the easing function. A nil fn means linear for tweens and no
// easing for sequences.
func (a *Animation) SetEase(fn ease.TweenFunc) {
	if !a.configurable("SetEase") {
		return
	}
	if fn == nil && a.kind == kindTween {
		fn = ease.Linear
	}
	a.ease = fn
}

// SetDelay waits d seconds before the first loop starts.
func (a *Animation) SetDelay(d float32) {
	if !a.configurable("SetDelay") {
		return
	}
	a.delay = max(d, 0)
	a.elapsedDelay = 0
	a.delayComplete = a.delay <= 0
}

// SetAutoKill chooses whether the animation is killed when its last loop
// completes.
func (a *Animation) SetAutoKill(autoKill bool) {
	if a.configurable("SetAutoKill") {
		a.autoKill = autoKill
	}
}

// SetRecyclable chooses whether the animation returns to a pool when killed.
func (a *Animation) SetRecyclable(recyclable bool) {
	if !a.active {
		a.m.usage(a, "SetRecyclable on a killed animation")
		return
	}
	a.recyclable = recyclable
}

// SetUpdate selects the pass that advances the animation and whether it
// uses unscaled time.
func (a *Animation) SetUpdate(ut UpdateType, independent bool) {
	if !a.controllable("SetUpdate") {
		return
	}
	a.updateType = ut
	a.independent = independent
}

// SetTimeScale multiplies the time this animation receives each step.
func (a *Animation) SetTimeScale(scale float32) {
	a.timeScale = max(scale, 0)
}

// SetID tags the animation for the Manager's filtered operations. IDs must
// be comparable.
func (a *Animation) SetID(id any) {
	a.id = id
}

// OnStart sets the callback fired the first time the animation starts playing.
func (a *Animation) OnStart(fn func()) { a.onStart = fn }

// OnPlay sets the callback fired whenever playback starts or resumes.
func (a *Animation) OnPlay(fn func()) { a.onPlay = fn }

// OnPause sets the callback fired whenever playback stops before the end.
func (a *Animation) OnPause(fn func()) { a.onPause = fn }

// OnRewind sets the callback fired when the animation returns to its start.
func (a *Animation) OnRewind(fn func()) { a.onRewind = fn }

// OnUpdate sets the callback fired after every applied step.
func (a *Animation) OnUpdate(fn func()) { a.onUpdate = fn }

// OnStepComplete sets the callback fired each time a loop completes.
func (a *Animation) OnStepComplete(fn func()) { a.onStepComplete = fn }

// OnComplete sets the callback fired once, when the last loop completes.
func (a *Animation) OnComplete(fn func()) { a.onComplete = fn }

// OnKill sets the callback fired when the animation is killed.
func (a *Animation) OnKill(fn func()) { a.onKill = fn }

// ---- state -----------------------------------------------------------------

// ID returns the value set with SetID.
func (a *Animation) ID() any { return a.id }

// Position returns the position within the current loop, in seconds.
func (a *Animation) Position() float32 { return a.position }

// Duration returns the length of one loop, or of all loops when
// includeLoops is set (+Inf for infinite loops).
func (a *Animation) Duration(includeLoops bool) float32 {
	if !includeLoops {
		return a.duration
	}
	if a.loops == InfiniteLoops {
		return float32(math.Inf(1))
	}
	return a.duration * float32(a.loops)
}

// Elapsed returns the time played in the current loop, or across all loops
// when includeLoops is set.
func (a *Animation) Elapsed(includeLoops bool) float32 {
	if !includeLoops {
		return a.position
	}
	loops := a.completedLoops
	if a.position >= a.duration && loops > 0 {
		loops--
	}
	return float32(loops)*a.duration + a.position
}

// Loops returns the loop count, InfiniteLoops for endless animations.
func (a *Animation) Loops() int { return a.loops }

// CompletedLoops returns how many loops have completed.
func (a *Animation) CompletedLoops() int { return a.completedLoops }

// LoopType returns how loops restart.
func (a *Animation) LoopType() LoopType { return a.loopType }

// Delay returns the start delay in seconds.
func (a *Animation) Delay() float32 { return a.delay }

// ElapsedDelay returns how much of the delay has passed.
func (a *Animation) ElapsedDelay() float32 { return a.elapsedDelay }

// IsActive reports whether the animation is alive (not killed).
func (a *Animation) IsActive() bool { return a.active }

// IsPlaying reports whether the animation advances on update passes.
func (a *Animation) IsPlaying() bool { return a.isPlaying }

// IsComplete reports whether the last loop has completed.
func (a *Animation) IsComplete() bool { return a.isComplete }

// IsBackwards reports whether the animation plays towards its start.
func (a *Animation) IsBackwards() bool { return a.isBackwards }

// IsInitialized reports whether startup has run.
func (a *Animation) IsInitialized() bool { return a.startupDone }

// AutoKill reports whether the animation dies when it completes.
func (a *Animation) AutoKill() bool { return a.autoKill }

// Recyclable reports whether the animation is pooled when killed.
func (a *Animation) Recyclable() bool { return a.recyclable }

// UpdateType returns the pass that advances the animation.
func (a *Animation) UpdateType() UpdateType { return a.updateType }

// Parent returns the sequence that owns the animation, or nil.
func (a *Animation) Parent() *Sequence { return a.parent }

// SequencedPosition returns where the animation starts on its parent's
// timeline.
func (a *Animation) SequencedPosition() float32 { return a.sequencedPosition }

// SequencedEndPosition returns where the animation ends on its parent's
// timeline.
func (a *Animation) SequencedEndPosition() float32 { return a.sequencedEndPosition }
