package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff    Level = iota // no tracing
	LevelWarn                // только предупреждения (большие документы, сбои загрузки)
	LevelInfo                // workspace + document boundaries
	LevelDetail              // graph passes, registrations
	LevelDebug               // everything including node-level
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|warn|info|detail|debug)", s)
	}
}

// ShouldEmit returns true if span events of the given scope are emitted at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff, LevelWarn:
		return false
	case LevelInfo:
		return scope <= ScopeDocument
	case LevelDetail:
		return scope <= ScopeGraph
	case LevelDebug:
		return true
	}
	return false
}

// accepts решает, пропускает ли трейсер уровня l событие ev.
func (l Level) accepts(ev *Event) bool {
	switch ev.Kind {
	case KindHeartbeat:
		return l > LevelOff
	case KindPoint:
		return ev.Level != LevelOff && l >= ev.Level
	default:
		return l.ShouldEmit(ev.Scope)
	}
}
