// Package trigger delivers user actions from the terminal and from signals.
package trigger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/ports"
)

// ErrUnknownCommand is returned by ParseCommand for unrecognized input.
var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand parses one control line: s|save, status, w|window <duration>, q|quit.
func ParseCommand(line string) (ports.TriggerEvent, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ports.TriggerEvent{}, ErrUnknownCommand
	}

	switch fields[0] {
	case "s", "save":
		return ports.TriggerEvent{Kind: ports.TriggerSave}, nil
	case "status":
		return ports.TriggerEvent{Kind: ports.TriggerStatus}, nil
	case "q", "quit", "exit":
		return ports.TriggerEvent{Kind: ports.TriggerQuit}, nil
	case "w", "window":
		if len(fields) != 2 {
			return ports.TriggerEvent{}, fmt.Errorf("window: expected one duration argument")
		}
		d, err := time.ParseDuration(fields[1])
		if err != nil {
			return ports.TriggerEvent{}, fmt.Errorf("window: %w", err)
		}
		if d <= 0 {
			return ports.TriggerEvent{}, fmt.Errorf("window: duration must be positive")
		}
		return ports.TriggerEvent{Kind: ports.TriggerWindow, Window: d}, nil
	}
	return ports.TriggerEvent{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

// Stdin reads control commands line by line.
type Stdin struct {
	r      io.Reader
	logger ports.Logger
}

// NewStdin creates a line trigger reading from r.
func NewStdin(r io.Reader, log ports.Logger) *Stdin {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Stdin{r: r, logger: log.WithComponent("trigger")}
}

// Events emits one event per valid line. The channel closes at EOF or when
// ctx ends. Invalid lines are logged and skipped.
func (s *Stdin) Events(ctx context.Context) <-chan ports.TriggerEvent {
	out := make(chan ports.TriggerEvent)
	lines := make(chan string)

	// The scanner may block on a terminal forever, so it runs apart from the
	// loop that honors ctx.
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer close(out)
		for {
			var line string
			select {
			case <-ctx.Done():
				return
			case l, ok := <-lines:
				if !ok {
					return
				}
				line = strings.TrimSpace(l)
			}
			if line == "" {
				continue
			}
			ev, err := ParseCommand(line)
			if err != nil {
				s.logger.Warn("Ignoring command: %v", err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

var _ ports.Trigger = (*Stdin)(nil)
