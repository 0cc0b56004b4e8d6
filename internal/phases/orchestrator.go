// Package phases runs the single-shot notification pipeline: channel check,
// input parsing, formatting, dispatch and the final report.
package phases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inazon/ai-task-notify/internal/config"
	"github.com/inazon/ai-task-notify/internal/event"
	"github.com/inazon/ai-task-notify/internal/exitcode"
	"github.com/inazon/ai-task-notify/internal/logging"
	"github.com/inazon/ai-task-notify/internal/message"
	"github.com/inazon/ai-task-notify/internal/notification"
	"github.com/inazon/ai-task-notify/internal/report"
)

// continueRun is returned by a phase that lets the pipeline proceed.
const continueRun = -1

// Orchestrator runs the notification pipeline once.
type Orchestrator struct {
	Config *config.Config

	// Args are the positional arguments; args[0] may hold a Codex payload.
	Args            []string
	Stdin           io.Reader
	StdinIsTerminal bool

	// Event, when set, bypasses input parsing.
	Event *event.Event

	Stdout io.Writer

	// Senders overrides the senders built from Config.
	Senders []notification.Sender
	Now     func() time.Time
	NewID   func() string

	channels []string
	event    *event.Event
	message  message.Message
	results  []notification.Result
}

// NewOrchestrator creates an orchestrator reading from the process stdin
// and writing its report to stdout.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}

// Run executes the pipeline and returns the process exit code.
func (o *Orchestrator) Run(ctx context.Context) int {
	o.setDefaults()

	// Phase 1: Enabled channels
	if code := o.phaseChannels(); code != continueRun {
		return code
	}

	// Phase 2: Input
	if code := o.phaseParse(); code != continueRun {
		return code
	}

	// Phase 3: Format
	o.phaseFormat()

	if o.Config.DryRun {
		report.PrintDryRun(o.Stdout, o.message, o.channels)
		return exitcode.Success
	}

	// Phase 4: Dispatch
	o.phaseDispatch(ctx)

	// Phase 5: Report
	return o.phaseReport()
}

// Results returns the per-channel outcomes of the last Run.
func (o *Orchestrator) Results() []notification.Result {
	return o.results
}

func (o *Orchestrator) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = strings.NewReader("")
	}
	if o.Stdout == nil {
		o.Stdout = io.Discard
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Senders == nil {
		o.Senders = notification.NewSenders(o.Config)
	}
}

func (o *Orchestrator) phaseChannels() int {
	o.channels = o.Config.EnabledChannels()
	if len(o.channels) == 0 {
		logging.Plain("No notification channels enabled")
		return exitcode.Success
	}
	logging.Debug(fmt.Sprintf("Enabled channels: %s", strings.Join(o.channels, ", ")))
	return continueRun
}

func (o *Orchestrator) phaseParse() int {
	if o.Event != nil {
		o.event = o.Event
		return continueRun
	}

	ev, err := event.Parse(o.Args, o.Stdin, o.StdinIsTerminal)
	switch {
	case errors.Is(err, event.ErrIgnored):
		logging.Debug(fmt.Sprintf("Ignoring %s event of type %q", ev.Source, ev.Type))
		return exitcode.Success
	case errors.Is(err, event.ErrNoInput):
		logging.Plain("No valid input data")
		return exitcode.Failure
	case err != nil:
		logging.Error(fmt.Sprintf("Failed to read input: %v", err))
		return exitcode.Failure
	}

	logging.Debug(fmt.Sprintf("Received %s event %q", ev.Source, ev.Type))
	o.event = ev
	return continueRun
}

func (o *Orchestrator) phaseFormat() {
	o.message = message.Format(o.event, o.Now())
	o.message.ID = o.NewID()
}

func (o *Orchestrator) phaseDispatch(ctx context.Context) {
	d := notification.NewDispatcher(o.Senders...)
	o.results = d.Dispatch(ctx, o.channels, o.message)
	if ctx.Err() != nil {
		logging.Warn("Interrupted, remaining channels were abandoned")
	}
}

func (o *Orchestrator) phaseReport() int {
	report.PrintResults(o.Stdout, o.results)
	if report.SuccessCount(o.results) > 0 {
		return exitcode.Success
	}
	return exitcode.Failure
}
