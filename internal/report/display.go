// Package report prints the delivery summary and dry-run previews of
// ai-task-notify.
//
// The summary is written to the given writer (stdout in production) so a
// calling hook can read it; checkmarks are colored when the writer is a
// terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/inazon/ai-task-notify/internal/event"
	"github.com/inazon/ai-task-notify/internal/message"
	"github.com/inazon/ai-task-notify/internal/notification"
)

var (
	okColor     = color.New(color.FgGreen, color.Bold).SprintFunc()
	failColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	headerColor = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// SuccessCount returns how many results succeeded.
func SuccessCount(results []notification.Result) int {
	n := 0
	for _, r := range results {
		if r.OK() {
			n++
		}
	}
	return n
}

// PrintResults writes the per-channel delivery summary.
//
// Example output:
//
//	Notifications sent: 1/2
//	  ✓ wecom
//	  ✗ email (not configured)
func PrintResults(w io.Writer, results []notification.Result) {
	fmt.Fprintf(w, "Notifications sent: %d/%d\n", SuccessCount(results), len(results))
	for _, r := range results {
		if r.OK() {
			fmt.Fprintf(w, "  %s %s\n", okColor("✓"), r.Channel)
			continue
		}
		fmt.Fprintf(w, "  %s %s (%s)\n", failColor("✗"), r.Channel, reason(r.Err))
	}
}

// reason shortens err for the one-line summary.
func reason(err error) string {
	if errors.Is(err, notification.ErrNotConfigured) {
		return "not configured"
	}
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const max = 120
	if short := event.Truncate(s, max); short != s {
		return short + "..."
	}
	return s
}

// PrintDryRun writes the rendered message and the channels it would go to.
//
// Example output:
//
//	───────────────────────────────────────────────────
//	  Dry run: wecom, email
//	───────────────────────────────────────────────────
//	🤖 Claude Code 任务完成
//	**时间**: 2026-03-04 05:06:07
//	...
//	───────────────────────────────────────────────────
func PrintDryRun(w io.Writer, msg message.Message, channels []string) {
	sep := headerColor(strings.Repeat("─", 51))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Dry run: %s\n", strings.Join(channels, ", "))
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, msg.Title)
	fmt.Fprintln(w, msg.Content)
	fmt.Fprintln(w, sep)
}
