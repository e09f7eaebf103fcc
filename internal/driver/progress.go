package driver

import "time"

// Stage is a step a file goes through during Diagnose.
type Stage string

const (
	// StageParse is the parallel read-and-parse step.
	StageParse Stage = "parse"
	// StageBind covers binding and the graph build.
	StageBind Stage = "bind"
	// StageReport is diagnostic collection.
	StageReport Stage = "report"
)

// Status describes the state of a file (or the run, when File is empty).
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusDone: no errors; warnings are allowed.
	StatusDone  Status = "done"
	StatusError Status = "error"
)

// Event is a progress notification.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
	Errors   int // только на StageReport
	Warnings int
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
