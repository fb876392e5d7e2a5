package sway

import (
	"cmp"
	"slices"
)

// sequenceEntry is either a child animation or a callback fired at a fixed
// position of the timeline.
type sequenceEntry struct {
	anim     *Animation
	callback func()
	at       float32
}

func (e sequenceEntry) start() float32 {
	if e.anim != nil {
		return e.anim.sequencedPosition
	}
	return e.at
}

func (e sequenceEntry) end() float32 {
	if e.anim != nil {
		return e.anim.sequencedEndPosition
	}
	return e.at
}

// Sequence plays tweens, nested sequences, callbacks and gaps on one shared
// timeline. Children are owned by the sequence once inserted: they cannot be
// controlled on their own, and they die with it.
//
// Insert everything before the sequence first updates; a started sequence is
// locked.
type Sequence struct {
	Animation

	entries    []sequenceEntry
	lastInsert float32
}

func (s *Sequence) animation() *Animation {
	if s == nil {
		return nil
	}
	return &s.Animation
}

// Sequence creates an empty sequence.
func (m *Manager) Sequence() *Sequence {
	s := m.acquireSequence()
	m.spawn(&s.Animation)
	return s
}

// Append adds c at the end of the timeline.
func (s *Sequence) Append(c Sequenceable) *Sequence {
	if a := s.child(c, "Append"); a != nil {
		s.place(a, s.duration)
	}
	return s
}

// Prepend adds c at the start of the timeline, moving everything else later
// by c's full duration.
func (s *Sequence) Prepend(c Sequenceable) *Sequence {
	if a := s.child(c, "Prepend"); a != nil {
		s.shift(a.delay + a.Duration(true))
		s.place(a, 0)
	}
	return s
}

// Join adds c at the same position as the last inserted animation.
func (s *Sequence) Join(c Sequenceable) *Sequence {
	if a := s.child(c, "Join"); a != nil {
		s.place(a, s.lastInsert)
	}
	return s
}

// Insert adds c at position at, extending the sequence if needed.
func (s *Sequence) Insert(at float32, c Sequenceable) *Sequence {
	if a := s.child(c, "Insert"); a != nil {
		s.place(a, max(at, 0))
	}
	return s
}

// AppendInterval adds a gap of d seconds at the end of the timeline.
func (s *Sequence) AppendInterval(d float32) *Sequence {
	if s.insertable("AppendInterval") {
		s.duration += max(d, 0)
		s.refreshFullDuration()
	}
	return s
}

// PrependInterval adds a gap of d seconds at the start of the timeline.
func (s *Sequence) PrependInterval(d float32) *Sequence {
	if s.insertable("PrependInterval") {
		s.shift(max(d, 0))
	}
	return s
}

// AppendCallback fires fn when playback reaches the current end of the
// timeline.
func (s *Sequence) AppendCallback(fn func()) *Sequence {
	return s.insertCallback(s.duration, fn, "AppendCallback")
}

// PrependCallback fires fn at the start of the timeline.
func (s *Sequence) PrependCallback(fn func()) *Sequence {
	return s.insertCallback(0, fn, "PrependCallback")
}

// InsertCallback fires fn at position at, extending the sequence if needed.
func (s *Sequence) InsertCallback(at float32, fn func()) *Sequence {
	return s.insertCallback(max(at, 0), fn, "InsertCallback")
}

// Len returns the number of children and callbacks in the sequence.
func (s *Sequence) Len() int { return len(s.entries) }

func (s *Sequence) insertCallback(at float32, fn func(), op string) *Sequence {
	if !s.insertable(op) {
		return s
	}
	if fn == nil {
		s.m.usage(&s.Animation, "%s: nil callback", op)
		return s
	}
	s.entries = append(s.entries, sequenceEntry{callback: fn, at: at})
	if at > s.duration {
		s.duration = at
		s.refreshFullDuration()
	}
	return s
}

func (s *Sequence) insertable(op string) bool {
	if !s.active {
		s.m.usage(&s.Animation, "%s on a killed sequence", op)
		return false
	}
	if s.locked {
		s.m.usage(&s.Animation, "%s on a sequence that already started or is nested", op)
		return false
	}
	return true
}

// child validates c for insertion and returns its animation.
func (s *Sequence) child(c Sequenceable, op string) *Animation {
	if !s.insertable(op) {
		return nil
	}
	var a *Animation
	if c != nil {
		a = c.animation()
	}
	switch {
	case a == nil:
		s.m.usage(&s.Animation, "%s: nil animation", op)
	case !a.active:
		s.m.usage(&s.Animation, "%s: %s was killed", op, a)
	case a.m != s.m:
		s.m.usage(&s.Animation, "%s: %s belongs to another manager", op, a)
	case a.parent != nil:
		s.m.usage(&s.Animation, "%s: %s is already nested in a sequence", op, a)
	case a.locked:
		s.m.usage(&s.Animation, "%s: %s already started", op, a)
	case a == &s.Animation:
		s.m.usage(&s.Animation, "%s: a sequence cannot contain itself", op)
	case s.hasAncestor(a):
		s.m.usage(&s.Animation, "%s: %s contains this sequence", op, a)
	default:
		if a.loops == InfiniteLoops {
			s.m.usage(a, "infinite loops inside a sequence play a single loop")
			a.loops = 1
			a.refreshFullDuration()
		}
		return a
	}
	return nil
}

func (s *Sequence) hasAncestor(a *Animation) bool {
	for p := s.parent; p != nil; p = p.parent {
		if &p.Animation == a {
			return true
		}
	}
	return false
}

// place takes ownership of a and schedules it at position at.
func (s *Sequence) place(a *Animation, at float32) {
	s.m.removeActive(a)
	at += a.delay
	s.lastInsert = at

	a.parent = s
	a.locked = true
	a.autoKill = false
	a.isPlaying = false
	a.delay = 0
	a.elapsedDelay = 0
	a.delayComplete = true
	a.sequencedPosition = at
	a.sequencedEndPosition = at + a.fullDuration

	s.entries = append(s.entries, sequenceEntry{anim: a})
	if a.sequencedEndPosition > s.duration {
		s.duration = a.sequencedEndPosition
		s.refreshFullDuration()
	}
}

// shift moves every entry later by d and grows the sequence to match.
func (s *Sequence) shift(d float32) {
	for i := range s.entries {
		e := &s.entries[i]
		if e.anim != nil {
			e.anim.sequencedPosition += d
			e.anim.sequencedEndPosition += d
		} else {
			e.at += d
		}
	}
	s.duration += d
	s.refreshFullDuration()
}

// ---- variant behaviour -----------------------------------------------------

func (s *Sequence) startup() bool {
	if len(s.entries) == 0 && !s.hasCallbacks() {
		s.m.logf(levelInfo, "%s: empty sequence discarded", &s.Animation)
		return false
	}
	slices.SortStableFunc(s.entries, func(x, y sequenceEntry) int {
		return cmp.Compare(x.start(), y.start())
	})
	return true
}

func (s *Sequence) validate() bool {
	for _, e := range s.entries {
		if e.anim != nil && !e.anim.validate() {
			return false
		}
	}
	return true
}

func (s *Sequence) reset() {
	clear(s.entries)
	s.entries = s.entries[:0]
	s.lastInsert = 0
}

// apply moves the children from the previous playhead to the current one.
// Update steps walk the timeline loop by loop so every crossed loop replays
// as a full range and each child sees all of its start and completion
// edges. Other modes jump straight to the new playhead.
func (s *Sequence) apply(prevPosition float32, prevCompletedLoops int, mode updateMode) bool {
	if s.duration <= 0 {
		return s.applyInstant(prevCompletedLoops, mode)
	}
	l0, u0 := s.split(prevPosition, prevCompletedLoops)
	l1, u1 := s.split(s.position, s.completedLoops)
	if mode != modeUpdate {
		from, to := s.visual(l0, u0), s.visual(l1, u1)
		return s.cycle(from, to, to < from, true, mode)
	}
	if l1 < l0 || l1 == l0 && u1 < u0 {
		return s.walkBackwards(l0, u0, l1, u1)
	}
	return s.walkForwards(l0, u0, l1, u1)
}

// split returns the loop and local position of a playhead. A playhead
// resting on a loop boundary reads as the end of the loop before it.
func (s *Sequence) split(position float32, completedLoops int) (int, float32) {
	if position >= s.duration && completedLoops > 0 {
		return completedLoops - 1, s.duration
	}
	return completedLoops, position
}

// visual maps a local position of loop onto the timeline, easing it and
// reading odd Yoyo loops backwards.
func (s *Sequence) visual(loop int, local float32) float32 {
	if s.ease != nil {
		local = s.duration * Ratio(s.ease, local, s.duration)
	}
	if s.loopType == LoopYoyo && loop%2 != 0 {
		return s.duration - local
	}
	return local
}

func (s *Sequence) walkForwards(l0 int, u0 float32, l1 int, u1 float32) bool {
	completedLoops, position, playing := s.completedLoops, s.position, s.isPlaying
	for l := l0; l <= l1; l++ {
		from, to := float32(0), s.duration
		if l == l0 {
			from = u0
		}
		if l == l1 {
			to = u1
		}
		fresh := l == 0 && from <= 0
		if l > l0 && s.loopType == LoopRestart {
			if s.rest(false) {
				return true
			}
			fresh = true
		}
		if from >= to && l < l1 {
			continue
		}
		vf, vt := s.visual(l, from), s.visual(l, to)
		if s.cycle(vf, vt, vt < vf, fresh, modeUpdate) {
			return true
		}
		// A callback moved or paused the sequence.
		if completedLoops != s.completedLoops || position != s.position || playing != s.isPlaying {
			return !s.active
		}
	}
	return !s.active
}

func (s *Sequence) walkBackwards(l0 int, u0 float32, l1 int, u1 float32) bool {
	completedLoops, position, playing := s.completedLoops, s.position, s.isPlaying
	for l := l0; l >= l1; l-- {
		from, to := s.duration, float32(0)
		if l == l0 {
			from = u0
		}
		if l == l1 {
			to = u1
		}
		fresh := false
		if l < l0 && s.loopType == LoopRestart {
			if s.rest(true) {
				return true
			}
			fresh = true
		}
		if from <= to && l > l1 {
			continue
		}
		vf, vt := s.visual(l, from), s.visual(l, to)
		if s.cycle(vf, vt, vt <= vf, fresh, modeUpdate) {
			return true
		}
		if completedLoops != s.completedLoops || position != s.position || playing != s.isPlaying {
			return !s.active
		}
	}
	return !s.active
}

// applyInstant steps a sequence whose timeline has no length: every loop
// fires its callbacks and completes its instant children at once.
func (s *Sequence) applyInstant(prevCompletedLoops int, mode updateMode) bool {
	if mode != modeUpdate || s.completedLoops <= prevCompletedLoops {
		atStart := s.completedLoops == 0 || s.loopType == LoopYoyo && s.completedLoops%2 == 0
		return s.cycle(0, 0, atStart, true, mode)
	}
	playing := s.isPlaying
	for l := prevCompletedLoops; l < s.completedLoops; l++ {
		if l > 0 && s.loopType == LoopRestart && s.rest(false) {
			return true
		}
		if s.cycle(0, 0, s.loopType == LoopYoyo && l%2 != 0, true, mode) {
			return true
		}
		if playing != s.isPlaying {
			return !s.active
		}
	}
	return !s.active
}

// cycle moves every entry intersecting the range between from and to onto
// its local time at to. Entries sitting exactly on from were handled by the
// previous range unless the range is fresh. Callback entries fire in update
// mode. It returns true when the sequence must be killed.
func (s *Sequence) cycle(from, to float32, backwards, fresh bool, mode updateMode) bool {
	wasPlaying := s.isPlaying
	if backwards {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if !s.active {
				return true
			}
			if !s.isPlaying && wasPlaying {
				return false
			}
			if i >= len(s.entries) {
				continue
			}
			e := s.entries[i]
			start, end := e.start(), e.end()
			if end < to || start > from || start == from && !fresh && (e.anim == nil || start < end) {
				continue
			}
			if e.anim == nil {
				if mode == modeUpdate && s.call(e.callback) {
					return true
				}
				continue
			}
			c := e.anim
			if !c.startupDone {
				// Never reached going forwards: nothing to undo.
				continue
			}
			c.isBackwards = true
			if c.gotoTime(max(to-c.sequencedPosition, 0), false, mode) && s.evict(i, c) {
				return true
			}
		}
		return !s.active
	}

	for i := 0; i < len(s.entries); i++ {
		if !s.active {
			return true
		}
		if !s.isPlaying && wasPlaying {
			return false
		}
		e := s.entries[i]
		start, end := e.start(), e.end()
		if start > to || end < from || end == from && !fresh && (e.anim == nil || start < end) {
			continue
		}
		if e.anim == nil {
			if mode == modeUpdate && s.call(e.callback) {
				return true
			}
			continue
		}
		c := e.anim
		c.isBackwards = false
		var mustKill bool
		if to >= end {
			// Past the window: land exactly on the end so the child
			// completes, instant children included.
			mustKill = c.gotoEnd(mode)
		} else {
			mustKill = c.gotoTime(max(to-c.sequencedPosition, 0), false, mode)
		}
		if mustKill {
			if s.evict(i, c) {
				return true
			}
			i--
		}
	}
	return !s.active
}

// rest parks every child on the start or the end of its window without
// firing callbacks, the way a Restart loop edge resets the timeline.
// Children are parked in the order that leaves the earliest start (or the
// latest end) on shared targets.
func (s *Sequence) rest(atEnd bool) bool {
	if atEnd {
		for i := 0; i < len(s.entries); i++ {
			c := s.entries[i].anim
			if c == nil {
				continue
			}
			c.isBackwards = false
			if c.gotoEnd(modeSilent) {
				if s.evict(i, c) {
					return true
				}
				i--
			}
		}
		return !s.active
	}
	for i := len(s.entries) - 1; i >= 0; i-- {
		if i >= len(s.entries) {
			continue
		}
		c := s.entries[i].anim
		if c == nil || !c.startupDone {
			continue
		}
		c.isBackwards = false
		if c.gotoTime(0, false, modeSilent) && s.evict(i, c) {
			return true
		}
	}
	return !s.active
}

// evict drops the failed child at index i. It returns true when the whole
// sequence has to die instead.
func (s *Sequence) evict(i int, c *Animation) bool {
	if s.m.nestedFailure == NestedKillSequence {
		return true
	}
	if len(s.entries) == 1 && !s.hasCallbacks() {
		return true
	}
	if i >= len(s.entries) || s.entries[i].anim != c {
		return !s.active
	}
	s.m.logf(levelWarn, "%s: dropping failed child %s", &s.Animation, c)
	s.entries = slices.Delete(s.entries, i, i+1)
	s.m.despawn(c, false)
	return false
}
