package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"housegate/internal/gate"
)

// Controller runs the live UI and implements gate.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 64)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnRunStart forwards run metadata to the UI.
func (c *Controller) OnRunStart(runID, modelName string) {
	c.send(Event{Kind: EventRunStart, RunID: runID, ModelName: modelName})
}

// CheckStarted forwards a check start to the UI.
func (c *Controller) CheckStarted(name string) {
	c.send(Event{Kind: EventCheckStart, CheckName: name})
}

// CheckFinished forwards a finished check result to the UI.
func (c *Controller) CheckFinished(result gate.CheckResult) {
	c.send(Event{Kind: EventCheckFinish, Result: result})
}

// OnRunEnd forwards the aggregate verdict to the UI and closes it.
func (c *Controller) OnRunEnd(passed bool) {
	c.send(Event{Kind: EventRunEnd, RunPassed: passed})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
