package sway

import (
	"log"
	"time"

	"github.com/tanema/gween/ease"
)

// defaults holds the parsed Settings values applied to every new animation.
type defaults struct {
	autoPlay    bool
	autoKill    bool
	recyclable  bool
	ease        ease.TweenFunc
	loopType    LoopType
	updateType  UpdateType
	independent bool
}

// Manager owns every animation it creates: the dense active set that update
// passes scan, the pools killed animations return to, and the plugin
// registry tweens resolve their value plugins from.
//
// A Manager is not safe for concurrent use. Create one per game loop with
// NewManager, call Update once per pass per frame, and create tweens with To
// or the typed shortcuts.
type Manager struct {
	// TimeScale multiplies the delta of every animation that is not time-scale
	// independent.
	TimeScale float32
	// UnscaledTimeScale multiplies the delta of time-scale independent
	// animations.
	UnscaledTimeScale float32

	settings Settings
	defaults defaults
	plugins  map[pluginKey]any

	// Active set. Killed slots are nil until compact runs.
	active          []*Animation
	totalActive     int
	needsReorganize bool
	reorganizeFrom  int

	inUpdate   bool
	busy       int
	killList   []*Animation
	spareKills []*Animation

	clearRequested bool
	clearQuitting  bool
	quitting       bool

	// Pools. pooledTweens is ordered oldest first; pooledSequences is a stack.
	pooledTweens    []*Animation
	pooledSequences []*Animation
	totalTweens     int
	totalSequences  int
	maxTweens       int
	maxSequences    int

	safeMode      bool
	nestedFailure NestedFailure
	sink          EventSink

	debug        bool
	logBehaviour LogBehaviour
	logger       *log.Logger
}

// NewManager creates a manager configured by s, with the default plugins for
// float64, float32, int, Vec2 and Color registered.
func NewManager(s Settings) (*Manager, error) {
	m := &Manager{
		plugins: make(map[pluginKey]any),
		logger:  newDefaultLogger(),
	}
	if err := m.ApplySettings(s); err != nil {
		return nil, err
	}
	registerDefaultPlugins(m)
	return m, nil
}

// ApplySettings validates s and applies it. Capacities only grow here; use
// SetCapacity to shrink them. Animations that already exist keep their own
// settings.
func (m *Manager) ApplySettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.settings = s
	m.defaults = defaults{
		autoPlay:    s.AutoPlay,
		autoKill:    s.AutoKill,
		recyclable:  s.Recyclable,
		ease:        mustEase(s.DefaultEase),
		loopType:    mustLoopType(s.DefaultLoopType),
		updateType:  mustUpdateType(s.DefaultUpdateType),
		independent: s.TimeScaleIndependent,
	}
	m.TimeScale = s.TimeScale
	m.UnscaledTimeScale = s.UnscaledTimeScale
	m.safeMode = s.SafeMode
	m.nestedFailure = mustNestedFailure(s.NestedFailure)
	m.logBehaviour = mustLogBehaviour(s.LogBehaviour)
	m.debug = s.Debug
	m.maxTweens = max(m.maxTweens, s.MaxTweens)
	m.maxSequences = max(m.maxSequences, s.MaxSequences)
	return nil
}

// ApplyPending applies the most recent settings reloaded by w, if any. Call it
// once per frame from the goroutine that runs Update.
func (m *Manager) ApplyPending(w *SettingsWatcher) error {
	select {
	case s, ok := <-w.Settings:
		if !ok {
			return nil
		}
		if err := m.ApplySettings(s); err != nil {
			return err
		}
		m.logf(levelInfo, "settings reloaded from %s", w.Path())
	case err, ok := <-w.Errors:
		if ok {
			return err
		}
	default:
	}
	return nil
}

// Settings returns the settings last applied.
func (m *Manager) Settings() Settings { return m.settings }

// SetLogger redirects diagnostics to l.
func (m *Manager) SetLogger(l *log.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	m.logger = l
}

// SetLogBehaviour filters diagnostics.
func (m *Manager) SetLogBehaviour(b LogBehaviour) { m.logBehaviour = b }

// SetDebugMode enables per-pass timing stats and capacity warnings.
func (m *Manager) SetDebugMode(enabled bool) { m.debug = enabled }

// SetSafeMode chooses whether panics in accessors, plugins and callbacks are
// recovered and turned into kills.
func (m *Manager) SetSafeMode(enabled bool) { m.safeMode = enabled }

// ---- active set ------------------------------------------------------------

// spawn applies the defaults to a freshly acquired animation and adds it to
// the active set.
func (m *Manager) spawn(a *Animation) {
	a.active = true
	a.isPlaying = m.defaults.autoPlay
	a.autoKill = m.defaults.autoKill
	a.recyclable = m.defaults.recyclable
	a.loops = 1
	a.loopType = m.defaults.loopType
	a.updateType = m.defaults.updateType
	a.independent = m.defaults.independent
	a.timeScale = 1
	a.delayComplete = true
	if a.kind == kindTween {
		a.ease = m.defaults.ease
	}
	a.refreshFullDuration()
	m.addActive(a)
}

func (m *Manager) addActive(a *Animation) {
	m.compact()
	a.activeIndex = len(m.active)
	m.active = append(m.active, a)
	m.totalActive++
	m.debugCheckCapacity()
}

// removeActive empties a's slot. The array is compacted later.
func (m *Manager) removeActive(a *Animation) {
	i := a.activeIndex
	if i < 0 || i >= len(m.active) || m.active[i] != a {
		return
	}
	m.active[i] = nil
	a.activeIndex = -1
	m.totalActive--
	if !m.needsReorganize || i < m.reorganizeFrom {
		m.reorganizeFrom = i
	}
	m.needsReorganize = true
}

// compact closes the holes left by removeActive, starting at the lowest one.
// It never runs while the array is being scanned.
func (m *Manager) compact() {
	if !m.needsReorganize || m.inUpdate || m.busy > 0 {
		return
	}
	j := m.reorganizeFrom
	for i := m.reorganizeFrom; i < len(m.active); i++ {
		a := m.active[i]
		if a == nil {
			continue
		}
		a.activeIndex = j
		m.active[j] = a
		j++
	}
	clear(m.active[j:])
	m.active = m.active[:j]
	m.needsReorganize = false
}

// enter and leave bracket every operation that may fire callbacks. Kills
// requested in between are carried out by the outermost leave.
func (m *Manager) enter() { m.busy++ }

func (m *Manager) leave() {
	m.busy--
	if m.busy == 0 && !m.inUpdate {
		m.flushKills()
		if m.clearRequested {
			m.clear(m.clearQuitting)
		}
	}
}

// kill removes a from the manager. While a pass or an operation is running it
// only marks a as inactive and queues it.
func (m *Manager) kill(a *Animation) {
	if a.pendingKill || !a.active && a.activeIndex < 0 {
		return
	}
	if m.inUpdate || m.busy > 0 {
		a.active = false
		a.pendingKill = true
		m.killList = append(m.killList, a)
		return
	}
	m.despawn(a, true)
}

// finish kills a if an operation reported it must die.
func (m *Manager) finish(a *Animation, mustKill bool) {
	if mustKill && a.active {
		m.kill(a)
	}
}

// flushKills despawns every queued animation, including ones queued by OnKill
// callbacks along the way, and returns how many it despawned.
func (m *Manager) flushKills() int {
	n := 0
	m.busy++
	for len(m.killList) > 0 {
		list := m.killList
		m.killList = m.spareKills[:0]
		for _, a := range list {
			m.despawn(a, true)
			n++
		}
		clear(list)
		m.spareKills = list[:0]
	}
	m.busy--
	return n
}

// despawn fires OnKill, takes a out of the active set (when fromActive) and
// pools or discards it. Sequence children go with their parent.
func (m *Manager) despawn(a *Animation, fromActive bool) {
	a.active = false
	a.signal(EventKill, a.onKill)
	if fromActive {
		m.removeActive(a)
	}
	if a.kind == kindSequence {
		for _, e := range a.seq.entries {
			if e.anim != nil {
				m.despawn(e.anim, false)
			}
		}
	}
	m.release(a)
}

// complete jumps a to its end. It reports whether anything changed.
func (m *Manager) complete(a *Animation, mode updateMode) bool {
	if a.loops == InfiniteLoops || a.isComplete {
		return false
	}
	m.enter()
	defer m.leave()
	a.delayComplete = true
	a.elapsedDelay = a.delay
	mustKill := a.doGoto(a.duration, a.loops, mode)
	a.isPlaying = false
	if a.active && (mustKill || a.autoKill) {
		m.kill(a)
	}
	return true
}

// fire runs a user callback. In safe mode a panic is logged and swallowed.
func (m *Manager) fire(a *Animation, fn func()) {
	if m.quitting {
		return
	}
	if m.safeMode {
		defer m.recoverCallback(a)
	}
	fn()
}

func (m *Manager) recoverCallback(a *Animation) {
	if r := recover(); r != nil {
		m.logf(levelError, "%s: callback panicked: %v", a, r)
	}
}

// ---- update passes ---------------------------------------------------------

// Update advances every playing animation of update type ut. dt is scaled by
// TimeScale and independentDt, used by time-scale independent animations, by
// UnscaledTimeScale. Animations that die during the pass are despawned after
// the scan. Calling Update from inside a pass is rejected.
func (m *Manager) Update(ut UpdateType, dt, independentDt float32) {
	if m.inUpdate {
		m.logf(levelWarn, "Update called from inside an update pass")
		return
	}
	m.compact()

	var start time.Time
	if m.debug {
		start = time.Now()
	}
	stats := debugStats{updateType: ut}

	dt *= m.TimeScale
	independentDt *= m.UnscaledTimeScale

	m.inUpdate = true
	n := len(m.active)
	for i := 0; i < n; i++ {
		a := m.active[i]
		if a == nil || a.updateType != ut {
			continue
		}
		stats.scanned++
		if !a.active {
			m.kill(a)
			continue
		}
		if !a.isPlaying {
			continue
		}
		a.locked = true

		delta := dt
		if a.independent {
			delta = independentDt
		}
		delta *= a.timeScale
		if delta <= 0 {
			continue
		}
		if !a.delayComplete {
			delta = a.updateDelay(a.elapsedDelay + delta)
			if delta <= 0 {
				continue
			}
			if a.playedOnce && a.signal(EventPlay, a.onPlay) {
				continue
			}
		}
		if !a.startupDone && !a.startup() {
			m.kill(a)
			continue
		}
		stats.updated++
		toPosition, toCompletedLoops := a.advance(delta)
		if a.doGoto(toPosition, toCompletedLoops, modeUpdate) {
			m.kill(a)
		}
	}
	stats.killed = m.flushKills()
	m.inUpdate = false

	if m.debug {
		stats.scanTime = time.Since(start)
		m.debugLog(stats)
	}
	if m.clearRequested && m.busy == 0 {
		m.clear(m.clearQuitting)
	}
}

// Validate calls every active animation's getters and kills the ones whose
// targets are gone. It returns how many it killed.
func (m *Manager) Validate() int {
	if m.inUpdate || m.busy > 0 {
		m.logf(levelWarn, "Validate called from inside an update pass")
		return 0
	}
	m.compact()
	m.inUpdate = true
	killed := 0
	n := len(m.active)
	for i := 0; i < n; i++ {
		a := m.active[i]
		if a == nil || !a.active {
			continue
		}
		if !a.validate() {
			m.kill(a)
			killed++
		}
	}
	m.flushKills()
	m.inUpdate = false
	return killed
}

// ---- global controls -------------------------------------------------------

// each runs op on every live animation accepted by match (nil matches all)
// and returns how many op reported as affected.
func (m *Manager) each(match func(*Animation) bool, op func(*Animation) bool) int {
	m.enter()
	defer m.leave()
	count := 0
	n := len(m.active)
	for i := 0; i < n && i < len(m.active); i++ {
		a := m.active[i]
		if a == nil || !a.active || match != nil && !match(a) {
			continue
		}
		if op(a) {
			count++
		}
	}
	return count
}

func matchID(id any) func(*Animation) bool {
	return func(a *Animation) bool { return a.id == id }
}

// PauseAll pauses every playing animation and returns how many it paused.
func (m *Manager) PauseAll() int { return m.each(nil, (*Animation).pause) }

// PlayAll resumes every paused animation and returns how many it resumed.
func (m *Manager) PlayAll() int { return m.each(nil, (*Animation).play) }

// TogglePauseAll toggles every animation between playing and paused.
func (m *Manager) TogglePauseAll() int { return m.each(nil, (*Animation).togglePause) }

// RewindAll rewinds every animation.
func (m *Manager) RewindAll(includeDelay bool) int {
	return m.each(nil, func(a *Animation) bool { return a.rewind(includeDelay) })
}

// RestartAll restarts every animation.
func (m *Manager) RestartAll(includeDelay bool) int {
	return m.each(nil, func(a *Animation) bool { return a.restart(includeDelay) })
}

// CompleteAll completes every finite animation.
func (m *Manager) CompleteAll(withCallbacks bool) int {
	mode := modeGoto
	if withCallbacks {
		mode = modeUpdate
	}
	return m.each(nil, func(a *Animation) bool { return m.complete(a, mode) })
}

// KillAll kills every animation, completing them first if complete is set.
func (m *Manager) KillAll(complete bool) int {
	return m.each(nil, func(a *Animation) bool { return m.killOne(a, complete) })
}

// PauseID pauses the animations tagged with id.
func (m *Manager) PauseID(id any) int { return m.each(matchID(id), (*Animation).pause) }

// PlayID resumes the animations tagged with id.
func (m *Manager) PlayID(id any) int { return m.each(matchID(id), (*Animation).play) }

// RestartID restarts the animations tagged with id.
func (m *Manager) RestartID(id any, includeDelay bool) int {
	return m.each(matchID(id), func(a *Animation) bool { return a.restart(includeDelay) })
}

// CompleteID completes the animations tagged with id.
func (m *Manager) CompleteID(id any, withCallbacks bool) int {
	mode := modeGoto
	if withCallbacks {
		mode = modeUpdate
	}
	return m.each(matchID(id), func(a *Animation) bool { return m.complete(a, mode) })
}

// KillID kills the animations tagged with id.
func (m *Manager) KillID(id any, complete bool) int {
	return m.each(matchID(id), func(a *Animation) bool { return m.killOne(a, complete) })
}

func (m *Manager) killOne(a *Animation, complete bool) bool {
	if complete {
		m.complete(a, modeGoto)
	}
	m.kill(a)
	return true
}

// Clear kills every animation and empties the pools. With quitting no
// callback fires, which is what a shutting-down game wants. Inside an update
// pass or a callback the clear waits until the pass ends.
func (m *Manager) Clear(quitting bool) {
	if m.inUpdate || m.busy > 0 {
		m.clearRequested = true
		m.clearQuitting = m.clearQuitting || quitting
		return
	}
	m.clear(quitting)
}

func (m *Manager) clear(quitting bool) {
	m.clearRequested = false
	m.clearQuitting = false
	m.quitting = quitting
	m.busy++
	for _, a := range m.active {
		if a == nil || !a.active && !a.pendingKill {
			continue
		}
		a.active = false
		a.signal(EventKill, a.onKill)
	}
	m.busy--

	clear(m.active)
	m.active = m.active[:0]
	m.totalActive = 0
	m.needsReorganize = false
	clear(m.killList)
	m.killList = m.killList[:0]
	clear(m.pooledTweens)
	m.pooledTweens = m.pooledTweens[:0]
	clear(m.pooledSequences)
	m.pooledSequences = m.pooledSequences[:0]
	m.totalTweens = 0
	m.totalSequences = 0
	m.maxTweens = m.settings.MaxTweens
	m.maxSequences = m.settings.MaxSequences
	m.quitting = false
}

// ---- statistics ------------------------------------------------------------

// TotalActive returns how many animations are alive in the active set.
func (m *Manager) TotalActive() int { return m.totalActive }

// TotalPlaying returns how many live animations are playing.
func (m *Manager) TotalPlaying() int {
	n := 0
	for _, a := range m.active {
		if a != nil && a.active && a.isPlaying {
			n++
		}
	}
	return n
}

// IsTweening reports whether a live animation tagged with id is playing.
func (m *Manager) IsTweening(id any) bool {
	for _, a := range m.active {
		if a != nil && a.active && a.isPlaying && a.id == id {
			return true
		}
	}
	return false
}
