package ports

import (
	"context"
	"time"
)

// TriggerKind identifies a control event.
type TriggerKind int

const (
	// TriggerSave requests an export of the current replay window.
	TriggerSave TriggerKind = iota
	// TriggerStatus requests a status report.
	TriggerStatus
	// TriggerWindow changes the retention window.
	TriggerWindow
	// TriggerQuit stops the application.
	TriggerQuit
)

// String returns the command name of the trigger kind.
func (k TriggerKind) String() string {
	switch k {
	case TriggerSave:
		return "save"
	case TriggerStatus:
		return "status"
	case TriggerWindow:
		return "window"
	case TriggerQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// TriggerEvent is a user action delivered to the control surface.
type TriggerEvent struct {
	Kind   TriggerKind
	Window time.Duration // set for TriggerWindow
}

// Trigger delivers user actions.
type Trigger interface {
	// Events returns a channel closed when ctx ends or the trigger is exhausted.
	Events(ctx context.Context) <-chan TriggerEvent
}
