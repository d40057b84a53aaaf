// Package events is the observability surface of the checker. The checker
// emits lifecycle and outcome events on a Bus; presentation (loggers,
// progress output, result collection) subscribes to them.
package events

import "github.com/August26/proxytaster/internal/model"

// Name identifies an event kind.
type Name string

const (
	RunStart Name = "run.start"
	RunEnd   Name = "run.end"

	CheckStart   Name = "check.start"
	CheckEnd     Name = "check.end"
	CheckSuccess Name = "check.success"
	CheckError   Name = "check.error"

	ExceptStart        Name = "except.start"
	ExceptEnd          Name = "except.end"
	ExceptSuccess      Name = "except.success"
	ExceptError        Name = "except.error"
	ExceptErrorSkipped Name = "except.error.skipped"

	// Error receives every ErrorEvent, whatever operation emitted it.
	Error Name = "error"
)

// Level is the severity of an ErrorEvent.
type Level string

const (
	// LevelNotWorking: no candidate protocol worked for the proxy.
	LevelNotWorking Level = "not-working"
	// LevelRecoverable: bad input or a severed proxy connection; only this
	// probe is affected.
	LevelRecoverable Level = "recoverable-error"
	// LevelFatal: the run is aborted.
	LevelFatal Level = "fatal"
	// LevelSkipped: a transport failure meaning "this protocol does not work
	// for this proxy".
	LevelSkipped Level = "skipped"
)

// Event is implemented by every event payload.
type Event interface {
	EventName() Name
}

// StartEvent opens a check or a probe.
type StartEvent struct {
	Name     Name
	Protocol model.Protocol // empty for a check without known protocol
	Address  string
}

// SuccessEvent carries the proxy that worked.
type SuccessEvent struct {
	Name     Name
	Protocol model.Protocol
	Proxy    *model.WorkedProxy
}

// ErrorEvent reports a failed check or probe.
type ErrorEvent struct {
	Name     Name
	Protocol model.Protocol
	Address  string
	Level    Level
	Message  string
	Cause    error
}

// EndEvent closes a check or a probe. Result is nil unless it succeeded.
type EndEvent struct {
	Name   Name
	Result *model.WorkedProxy
}

// RunStartEvent is emitted once before any proxy is scheduled.
type RunStartEvent struct {
	Name    Name
	Proxies []model.ProxyAddress
	Workers int
}

// RunEndEvent is emitted once after every check completed.
type RunEndEvent struct {
	Name    Name
	Proxies []*model.WorkedProxy
}

func (e StartEvent) EventName() Name    { return e.Name }
func (e SuccessEvent) EventName() Name  { return e.Name }
func (e ErrorEvent) EventName() Name    { return e.Name }
func (e EndEvent) EventName() Name      { return e.Name }
func (e RunStartEvent) EventName() Name { return e.Name }
func (e RunEndEvent) EventName() Name   { return e.Name }
