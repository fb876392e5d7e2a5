package sway

import (
	"fmt"
	"log"
	"os"
	"time"
)

// LogBehaviour filters the diagnostics a Manager writes.
type LogBehaviour uint8

const (
	LogDefault    LogBehaviour = iota // warnings and errors
	LogVerbose                        // everything, including informational notes
	LogErrorsOnly                     // errors only
	LogSilent                         // nothing
)

// String returns the settings-file name of the log behaviour.
func (b LogBehaviour) String() string {
	switch b {
	case LogDefault:
		return "default"
	case LogVerbose:
		return "verbose"
	case LogErrorsOnly:
		return "errorsOnly"
	case LogSilent:
		return "silent"
	default:
		return "unknown"
	}
}

type logLevel uint8

const (
	levelInfo logLevel = iota
	levelWarn
	levelError
)

func newDefaultLogger() *log.Logger {
	return log.New(os.Stderr, "[sway] ", 0)
}

func (m *Manager) logEnabled(level logLevel) bool {
	switch m.logBehaviour {
	case LogVerbose:
		return true
	case LogDefault:
		return level >= levelWarn
	case LogErrorsOnly:
		return level == levelError
	default:
		return false
	}
}

func (m *Manager) logf(level logLevel, format string, args ...any) {
	if !m.logEnabled(level) {
		return
	}
	switch level {
	case levelWarn:
		format = "warning: " + format
	case levelError:
		format = "error: " + format
	}
	m.logger.Printf(format, args...)
}

// usage reports a rejected API call. The call itself becomes a no-op.
func (m *Manager) usage(a *Animation, format string, args ...any) {
	m.logf(levelWarn, "%s: %s", a, fmt.Sprintf(format, args...))
}

// debugStats holds per-pass timing and counters.
// Only populated when the Manager is in debug mode.
type debugStats struct {
	updateType UpdateType
	scanTime   time.Duration
	scanned    int
	updated    int
	killed     int
}

// debugLog prints the stats of one update pass.
func (m *Manager) debugLog(stats debugStats) {
	if !m.debug {
		return
	}
	m.logger.Printf("%s pass: scan %v | scanned: %d | updated: %d | killed: %d | active: %d | pooled: %d/%d",
		stats.updateType, stats.scanTime, stats.scanned, stats.updated, stats.killed,
		m.TotalActive(), len(m.pooledTweens), len(m.pooledSequences))
}

// debugCheckCapacity warns when the active set grows past the configured
// capacities, which usually means animations are created every frame and
// never killed.
func (m *Manager) debugCheckCapacity() {
	if !m.debug {
		return
	}
	if n := len(m.active); n > m.maxTweens+m.maxSequences {
		m.logger.Printf("warning: %d active slots exceed capacity %d+%d", n, m.maxTweens, m.maxSequences)
	}
}
