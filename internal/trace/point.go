package trace

import (
	"fmt"
	"time"
)

// Warn emits a point event visible from LevelWarn up.
func Warn(t Tracer, scope Scope, name, detail string) {
	point(t, LevelWarn, scope, name, detail)
}

// Info emits a point event visible from LevelInfo up.
func Info(t Tracer, scope Scope, name, detail string) {
	point(t, LevelInfo, scope, name, detail)
}

// Debug emits a point event visible only at LevelDebug.
func Debug(t Tracer, scope Scope, name, detail string) {
	point(t, LevelDebug, scope, name, detail)
}

// Warnf — Warn с форматированием detail.
func Warnf(t Tracer, scope Scope, name, format string, args ...any) {
	if t == nil || t.Level() < LevelWarn {
		return
	}
	point(t, LevelWarn, scope, name, fmt.Sprintf(format, args...))
}

// Debugf — Debug с форматированием; форматирование не выполняется, если уровень ниже.
func Debugf(t Tracer, scope Scope, name, format string, args ...any) {
	if t == nil || t.Level() < LevelDebug {
		return
	}
	point(t, LevelDebug, scope, name, fmt.Sprintf(format, args...))
}

func point(t Tracer, min Level, scope Scope, name, detail string) {
	if t == nil || t.Level() < min {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Level:  min,
		GID:    goroutineID(),
		Name:   name,
		Detail: detail,
	})
}
