// Package message renders caller events into the title and markdown body
// sent to every channel.
package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/inazon/ai-task-notify/internal/event"
)

// TimeLayout is the timestamp layout used in message bodies.
const TimeLayout = "2006-01-02 15:04:05"

// RawDataLimit is the rune limit applied to embedded payload dumps.
const RawDataLimit = 1000

// Titles per caller.
const (
	TitleClaudeCode = "🤖 Claude Code 任务完成"
	TitleCodex      = "🤖 Codex 任务完成"
	TitleGeneric    = "🤖 AI 任务完成"
)

const (
	notAvailable = "N/A"
	noContent    = "(无内容)"
)

// Message is a rendered notification. ID is the dispatch id shared by all
// channels of one run.
type Message struct {
	ID      string
	Title   string
	Content string
}

// Format renders ev into a Message stamped with now.
func Format(ev *event.Event, now time.Time) Message {
	ts := now.Format(TimeLayout)

	source := event.SourceUnknown
	if ev != nil {
		source = ev.Source
	}

	switch source {
	case event.SourceClaudeCode:
		return Message{Title: TitleClaudeCode, Content: formatClaudeCode(ev, ts)}
	case event.SourceCodex:
		return Message{Title: TitleCodex, Content: formatCodex(ev, ts)}
	default:
		return Message{Title: TitleGeneric, Content: formatGeneric(ev, ts)}
	}
}

func formatClaudeCode(ev *event.Event, ts string) string {
	cwd := ev.String("cwd")
	if cwd == "" {
		cwd = notAvailable
	}
	session := ev.String("session_id")
	if session == "" {
		session = notAvailable
	}
	last := event.LastAssistantMessage(ev, event.LastMessageLimit)
	if last == "" {
		last = noContent
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**时间**: %s\n", ts)
	fmt.Fprintf(&b, "**工作目录**: %s\n", cwd)
	fmt.Fprintf(&b, "**会话ID**: %s...\n", event.Truncate(session, 8))
	b.WriteString("\n")
	b.WriteString("**最后消息**:\n")
	b.WriteString(last)
	return b.String()
}

func formatCodex(ev *event.Event, ts string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**时间**: %s\n", ts)
	fmt.Fprintf(&b, "**事件类型**: %s\n", ev.Type)
	b.WriteString("\n")
	if last := event.LastAssistantMessage(ev, event.LastMessageLimit); last != "" {
		b.WriteString("**最后消息**:\n")
		b.WriteString(last)
		b.WriteString("\n\n")
	}
	b.WriteString("**原始数据**:\n")
	writeJSONBlock(&b, ev.Data)
	return b.String()
}

func formatGeneric(ev *event.Event, ts string) string {
	source := string(event.SourceUnknown)
	var data map[string]any
	if ev != nil {
		if ev.Source != "" {
			source = string(ev.Source)
		}
		data = ev.Data
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**时间**: %s\n", ts)
	fmt.Fprintf(&b, "**来源**: %s\n", source)
	b.WriteString("\n")
	b.WriteString("**数据**:\n")
	writeJSONBlock(&b, data)
	return b.String()
}

// writeJSONBlock writes data as an indented ```json fence, truncated to
// RawDataLimit runes. Non-ASCII and HTML characters are kept verbatim.
func writeJSONBlock(b *strings.Builder, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	b.WriteString("```json\n")
	b.WriteString(event.Truncate(PrettyJSON(data), RawDataLimit))
	b.WriteString("\n```")
}

// PrettyJSON renders v with two-space indentation and without HTML
// escaping. Values that cannot be encoded render as "{}".
func PrettyJSON(v any) string {
	if v == nil {
		return "{}"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimRight(buf.String(), "\n")
}
