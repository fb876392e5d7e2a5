package sway

import "slices"

const (
	defaultMaxTweens    = 200
	defaultMaxSequences = 50
)

// acquireTween returns a reset pooled tween of the same value and options
// types, or a new one. New tweens may evict the oldest pooled tween or grow
// the capacity first.
func acquireTween[T, O any](m *Manager) *Tween[T, O] {
	if a := m.takePooledTween(keyOf[T, O]()); a != nil {
		return a.leaf.(*Tween[T, O])
	}
	m.reserveTween()
	t := &Tween[T, O]{}
	t.m = m
	t.kind = kindTween
	t.leaf = t
	t.activeIndex = -1
	m.totalTweens++
	return t
}

// takePooledTween removes and returns the most recently pooled tween with
// key k.
func (m *Manager) takePooledTween(k pluginKey) *Animation {
	for i := len(m.pooledTweens) - 1; i >= 0; i-- {
		a := m.pooledTweens[i]
		if a.leaf.poolKey() == k {
			m.pooledTweens = slices.Delete(m.pooledTweens, i, i+1)
			return a
		}
	}
	return nil
}

// reserveTween makes room for one more tween: it evicts the oldest pooled
// tween when there is one, and grows the capacity otherwise.
func (m *Manager) reserveTween() {
	if m.totalTweens < m.maxTweens-1 {
		return
	}
	if len(m.pooledTweens) > 0 {
		m.pooledTweens = slices.Delete(m.pooledTweens, 0, 1)
		m.totalTweens--
		return
	}
	prev := m.maxTweens
	m.maxTweens = max(m.maxTweens*3/2, defaultMaxTweens)
	m.logf(levelWarn, "max tweens reached: capacity raised from %d to %d (use SetCapacity to avoid this)", prev, m.maxTweens)
}

func (m *Manager) acquireSequence() *Sequence {
	if n := len(m.pooledSequences); n > 0 {
		a := m.pooledSequences[n-1]
		m.pooledSequences[n-1] = nil
		m.pooledSequences = m.pooledSequences[:n-1]
		return a.seq
	}
	if m.totalSequences >= m.maxSequences-1 {
		prev := m.maxSequences
		m.maxSequences = max(m.maxSequences*3/2, defaultMaxSequences)
		m.logf(levelWarn, "max sequences reached: capacity raised from %d to %d (use SetCapacity to avoid this)", prev, m.maxSequences)
	}
	s := &Sequence{}
	s.m = m
	s.kind = kindSequence
	s.seq = s
	s.activeIndex = -1
	m.totalSequences++
	return s
}

// release returns a killed animation to its pool, or forgets it when it is
// not recyclable.
func (m *Manager) release(a *Animation) {
	recyclable := a.recyclable
	kind := a.kind
	a.reset()
	switch {
	case !recyclable && kind == kindTween:
		m.totalTweens--
	case !recyclable:
		m.totalSequences--
	case kind == kindTween:
		m.pooledTweens = append(m.pooledTweens, a)
	default:
		m.pooledSequences = append(m.pooledSequences, a)
	}
}

// SetCapacity sets how many tweens and sequences the manager expects to hold,
// live and pooled together. Pooled animations beyond the new capacities are
// dropped, oldest first.
func (m *Manager) SetCapacity(tweens, sequences int) {
	if tweens < 1 || sequences < 1 {
		m.logf(levelWarn, "SetCapacity(%d, %d): capacities must be positive", tweens, sequences)
		return
	}
	m.maxTweens = tweens
	m.maxSequences = sequences
	if n := min(m.totalTweens-tweens, len(m.pooledTweens)); n > 0 {
		clear(m.pooledTweens[:n])
		m.pooledTweens = slices.Delete(m.pooledTweens, 0, n)
		m.totalTweens -= n
	}
	if n := min(m.totalSequences-sequences, len(m.pooledSequences)); n > 0 {
		clear(m.pooledSequences[:n])
		m.pooledSequences = slices.Delete(m.pooledSequences, 0, n)
		m.totalSequences -= n
	}
}

// Capacity returns the current tween and sequence capacities.
func (m *Manager) Capacity() (tweens, sequences int) {
	return m.maxTweens, m.maxSequences
}

// TotalPooled returns how many tweens and sequences wait in the pools.
func (m *Manager) TotalPooled() (tweens, sequences int) {
	return len(m.pooledTweens), len(m.pooledSequences)
}
