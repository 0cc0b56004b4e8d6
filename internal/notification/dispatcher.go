package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/inazon/ai-task-notify/internal/logging"
	"github.com/inazon/ai-task-notify/internal/message"
)

// Dispatcher routes a message to the senders named in the enabled channel
// list, one at a time.
type Dispatcher struct {
	senders map[string]Sender
}

// NewDispatcher registers senders by name. A later sender with the same
// name replaces an earlier one.
func NewDispatcher(senders ...Sender) *Dispatcher {
	d := &Dispatcher{senders: make(map[string]Sender, len(senders))}
	for _, s := range senders {
		d.senders[s.Name()] = s
	}
	return d
}

// Known reports whether a sender is registered under channel.
func (d *Dispatcher) Known(channel string) bool {
	_, ok := d.senders[channel]
	return ok
}

// Dispatch sends msg to each channel in order and returns one Result per
// known channel. Unknown names are logged and skipped, duplicates are sent
// once, and unconfigured channels fail with ErrNotConfigured without any
// request. A failing channel never prevents the next one from running.
func (d *Dispatcher) Dispatch(ctx context.Context, channels []string, msg message.Message) []Result {
	results := make([]Result, 0, len(channels))
	seen := make(map[string]bool, len(channels))

	for _, ch := range channels {
		if seen[ch] {
			continue
		}
		seen[ch] = true

		sender, ok := d.senders[ch]
		if !ok {
			logging.Warn(fmt.Sprintf("Unknown notification channel: %s, skipping", ch))
			continue
		}

		if !sender.Configured() {
			logging.Warn(fmt.Sprintf("Channel %s is enabled but not configured", ch))
			results = append(results, Result{Channel: ch, Err: ErrNotConfigured})
			continue
		}

		logging.Debug(fmt.Sprintf("Sending %s via %s", msg.ID, ch))
		err := safeSend(ctx, sender, msg)
		if err != nil {
			logging.Error(fmt.Sprintf("Channel %s error: %v", ch, err))
		} else {
			logging.Debug(fmt.Sprintf("Channel %s accepted %s", ch, msg.ID))
		}
		results = append(results, Result{Channel: ch, Err: err})
	}

	return results
}

// errPanic wraps a recovered sender panic.
var errPanic = errors.New("sender panicked")

func safeSend(ctx context.Context, s Sender, msg message.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return s.Send(ctx, msg)
}
