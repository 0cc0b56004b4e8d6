// Package event detects which agent tool invoked ai-task-notify and decodes
// its JSON payload.
//
// Codex CLI passes the payload as the first command-line argument; Claude
// Code hooks write it to stdin. The argument is tried first.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Source identifies the calling agent tool.
type Source string

const (
	SourceClaudeCode Source = "claude-code"
	SourceCodex      Source = "codex"
	SourceUnknown    Source = "unknown"
)

// Event types produced by the supported callers.
const (
	TypeAgentTurnComplete = "agent-turn-complete"
	TypeStop              = "stop"
)

var (
	// ErrIgnored is returned for payloads that decode fine but describe an
	// event no notification should be sent for.
	ErrIgnored = errors.New("event ignored")
	// ErrNoInput is returned when neither the argument nor stdin held a
	// usable JSON object.
	ErrNoInput = errors.New("no valid input data")
)

// Event is a decoded caller payload.
type Event struct {
	Source Source
	Type   string
	Data   map[string]any
	Raw    []byte
}

// String returns the value at key when it is a string, or "".
func (e *Event) String(key string) string {
	if e == nil || e.Data == nil {
		return ""
	}
	s, _ := e.Data[key].(string)
	return s
}

// Parse resolves the caller payload from args and stdin.
//
// A JSON object in args[0] is a Codex notification; only
// agent-turn-complete events are kept, anything else yields ErrIgnored.
// When args does not hold JSON and stdin is not a terminal, stdin is read
// as a Claude Code hook payload. Decoding failures fall through silently;
// ErrNoInput is returned when nothing usable was found. A read error on
// stdin is wrapped and returned.
func Parse(args []string, stdin io.Reader, stdinIsTerminal bool) (*Event, error) {
	if len(args) > 0 {
		if data, ok := decodeObject([]byte(args[0])); ok {
			ev := &Event{Source: SourceCodex, Data: data, Raw: []byte(args[0])}
			ev.Type = ev.String("type")
			if ev.Type != TypeAgentTurnComplete {
				return ev, ErrIgnored
			}
			return ev, nil
		}
	}

	if stdin != nil && !stdinIsTerminal {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			if data, ok := decodeObject(raw); ok && len(data) > 0 {
				ev := &Event{Source: SourceClaudeCode, Type: TypeStop, Data: data, Raw: raw}
				if name := ev.String("hook_event_name"); name != "" {
					ev.Type = name
				}
				return ev, nil
			}
		}
	}

	return nil, ErrNoInput
}

// decodeObject unmarshals raw into a JSON object. Arrays, scalars and
// malformed input report false.
func decodeObject(raw []byte) (map[string]any, bool) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false
	}
	if data == nil {
		// literal null
		return nil, false
	}
	return data, true
}
